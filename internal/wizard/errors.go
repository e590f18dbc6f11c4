package wizard

import "errors"

var (
	// ErrNotLoaded is returned when an action needs the configuration form
	// but Init has not completed successfully.
	ErrNotLoaded = errors.New("wizard not loaded")

	// ErrInvalidForm is returned by Next when an edited option fails validation
	ErrInvalidForm = errors.New("configuration form has invalid values")

	// ErrConsentRequired is returned by Submit until the license is accepted
	ErrConsentRequired = errors.New("the data sharing license must be accepted")

	// ErrWrongStep is returned when an action does not apply to the current step
	ErrWrongStep = errors.New("action not available on this step")

	// ErrUnknownOption is returned when editing a name that is not in the form
	ErrUnknownOption = errors.New("unknown option")
)

// User-facing messages
const (
	SubmitSuccessMessage  = "The Telemetry module has been configured and activated successfully."
	SubmitErrorMessage    = "An Error occurred while updating the Telemetry module configuration. Please Try again"
	DisableSuccessMessage = "The Telemetry module has been disabled."
	disableErrorFmt       = "Failed to disable the Telemetry module: %s"
)
