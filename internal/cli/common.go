package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mekedron/tableorder-cli/internal/cart"
	"github.com/mekedron/tableorder-cli/internal/checkout"
	"github.com/mekedron/tableorder-cli/internal/domain"
	"github.com/mekedron/tableorder-cli/internal/gateway/backend"
	"github.com/mekedron/tableorder-cli/internal/service/menu"
	"github.com/mekedron/tableorder-cli/internal/service/output"
	"github.com/mekedron/tableorder-cli/internal/service/profile"
	"github.com/mekedron/tableorder-cli/internal/storage"
)

const (
	codeNotFound        = "TABLEORDER_NOT_FOUND"
	codeUnreachable     = "TABLEORDER_UNREACHABLE"
	codeInvalidData     = "TABLEORDER_INVALID_DATA"
	codeInactive        = "TABLEORDER_INACTIVE"
	codeValidation      = "TABLEORDER_VALIDATION"
	codeSubmitFailed    = "TABLEORDER_SUBMIT_FAILED"
	codeEmptyCart       = "TABLEORDER_EMPTY_CART"
	codeItemUnavailable = "TABLEORDER_ITEM_UNAVAILABLE"
	codeItemNotFound    = "TABLEORDER_ITEM_NOT_FOUND"
	codeStorage         = "TABLEORDER_STORAGE_ERROR"
	codeInvalidArgument = "TABLEORDER_INVALID_ARGUMENT"
	codeProfile         = "TABLEORDER_PROFILE_ERROR"
	codeInternal        = "TABLEORDER_ERROR"
)

const notFoundHint = "check the QR link, or pick another restaurant with --restaurant"

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return ""
}

type globalFlags struct {
	Format     string
	Profile    string
	Restaurant string
	Output     string
	Verbose    bool
}

const sharedGlobalFlagAnnotation = "tableorder_shared_global"

func addGlobalFlags(cmd *cobra.Command, flags *globalFlags) {
	addSharedGlobalFlag(cmd, "format", func() {
		cmd.Flags().StringVar(&flags.Format, "format", "table", "Output format: table, json, or yaml.")
	})
	addSharedGlobalFlag(cmd, "profile", func() {
		cmd.Flags().StringVar(&flags.Profile, "profile", "", "Profile name for saved restaurant defaults.")
	})
	addSharedGlobalFlag(cmd, "restaurant", func() {
		cmd.Flags().StringVar(&flags.Restaurant, "restaurant", "", "Restaurant id or QR link. Overrides the profile restaurant.")
	})
	addSharedGlobalFlag(cmd, "output", func() {
		cmd.Flags().StringVar(&flags.Output, "output", "", "Write output to a file instead of stdout.")
	})
	addSharedGlobalFlag(cmd, "verbose", func() {
		cmd.Flags().BoolVar(&flags.Verbose, "verbose", false, "Log request traces to stderr and include error causes in output.")
	})
}

func addSharedGlobalFlag(cmd *cobra.Command, name string, register func()) {
	if cmd.Flags().Lookup(name) != nil {
		return
	}
	register()
	flag := cmd.Flags().Lookup(name)
	if flag == nil {
		return
	}
	if flag.Annotations == nil {
		flag.Annotations = map[string][]string{}
	}
	flag.Annotations[sharedGlobalFlagAnnotation] = []string{"true"}
}

func resolveProfileLabel(profileName string) string {
	profile := strings.TrimSpace(profileName)
	if profile == "" {
		return "anonymous"
	}
	return profile
}

func writeTable(cmd *cobra.Command, text string, outputPath string) error {
	return output.WriteOutput(cmd.OutOrStdout(), text, outputPath)
}

func writeMachinePayload(cmd *cobra.Command, env output.Envelope, format output.Format, outputPath string) error {
	rendered, err := output.RenderPayload(env, format)
	if err != nil {
		return err
	}
	return output.WriteOutput(cmd.OutOrStdout(), rendered, outputPath)
}

func emitError(
	cmd *cobra.Command,
	format output.Format,
	profile string,
	restaurantID string,
	outputPath string,
	code string,
	message string,
) error {
	if format == output.FormatTable {
		if err := output.WriteOutput(cmd.OutOrStdout(), message, outputPath); err != nil {
			return err
		}
		return &exitError{code: 1}
	}
	env := output.BuildErrorEnvelope(profile, restaurantID, code, message)
	if err := writeMachinePayload(cmd, env, format, outputPath); err != nil {
		return err
	}
	return &exitError{code: 1}
}

// classifyError maps a failure to its error code and the message shown
// without --verbose.
func classifyError(err error) (string, string) {
	switch {
	case errors.Is(err, checkout.ErrSubmissionFailed):
		return codeSubmitFailed, checkout.ErrSubmissionFailed.Error()
	case errors.Is(err, checkout.ErrValidationFailed):
		return codeValidation, err.Error()
	case errors.Is(err, checkout.ErrRestaurantInactive):
		return codeInactive, checkout.ErrRestaurantInactive.Error()
	case errors.Is(err, checkout.ErrEmptyCart):
		return codeEmptyCart, checkout.ErrEmptyCart.Error()
	case errors.Is(err, checkout.ErrSubmissionInProgress):
		return codeSubmitFailed, checkout.ErrSubmissionInProgress.Error()
	case errors.Is(err, cart.ErrItemUnavailable):
		return codeItemUnavailable, err.Error()
	case errors.Is(err, cart.ErrItemNotFound):
		return codeItemNotFound, err.Error()
	case errors.Is(err, cart.ErrPersist):
		return codeStorage, "cart could not be saved (use --verbose for details)"
	case errors.Is(err, backend.ErrNotFound):
		return codeNotFound, backend.ErrNotFound.Error() + "; " + notFoundHint
	case errors.Is(err, backend.ErrInvalidData):
		return codeInvalidData, backend.ErrInvalidData.Error()
	case errors.Is(err, backend.ErrUnreachable):
		message := backend.ErrUnreachable.Error() + " (use --verbose for details)"
		var upstreamErr *backend.UpstreamRequestError
		if errors.As(err, &upstreamErr) && upstreamErr.StatusCode > 0 {
			message = fmt.Sprintf("%s (status %d, use --verbose for details)", backend.ErrUnreachable.Error(), upstreamErr.StatusCode)
		}
		return codeUnreachable, message
	case errors.Is(err, menu.ErrInvalidRestaurantRef):
		return codeInvalidArgument, err.Error()
	case errors.Is(err, profile.ErrRestaurantNotSelected),
		errors.Is(err, profile.ErrProfileNotFound),
		errors.Is(err, profile.ErrDefaultProfileNotFound):
		return codeProfile, err.Error()
	default:
		return codeInternal, err.Error()
	}
}

func verboseMessage(err error) string {
	var submitErr *checkout.SubmissionError
	if errors.As(err, &submitErr) && submitErr.Cause != nil {
		return submitErr.Error() + ": " + submitErr.Cause.Error()
	}
	return err.Error()
}

// session is the per-command context: parsed output flags, the resolved
// restaurant and a gateway bound to the profile base URL.
type session struct {
	cmd          *cobra.Command
	deps         Dependencies
	flags        *globalFlags
	format       output.Format
	profile      string
	restaurantID string
	api          backend.API
}

func openSession(cmd *cobra.Command, deps Dependencies, flags *globalFlags) (*session, error) {
	format, err := output.ParseFormat(flags.Format)
	if err != nil {
		return nil, err
	}
	s := &session{
		cmd:     cmd,
		deps:    deps,
		flags:   flags,
		format:  format,
		profile: resolveProfileLabel(flags.Profile),
	}
	if deps.Profiles == nil {
		return nil, s.emit(codeProfile, "profile resolver is not available")
	}
	resolved, err := deps.Profiles.Resolve(cmd.Context(), flags.Profile, flags.Restaurant)
	if err != nil {
		return nil, s.fail(err)
	}
	if resolved.ProfileName != "" {
		s.profile = resolved.ProfileName
	}
	s.restaurantID = resolved.RestaurantID
	if deps.Backend == nil {
		return nil, s.emit(codeInternal, "backend client is not available")
	}
	s.api = deps.Backend(resolved.APIBaseURL)
	return s, nil
}

func (s *session) emit(code, message string) error {
	return emitError(s.cmd, s.format, s.profile, s.restaurantID, s.flags.Output, code, message)
}

func (s *session) fail(err error) error {
	code, message := classifyError(err)
	if s.flags.Verbose {
		message = verboseMessage(err)
	}
	s.deps.logger().Debug("command failed", zap.String("code", code), zap.Error(err))
	return s.emit(code, message)
}

func (s *session) invalidArgument(message string) error {
	return s.emit(codeInvalidArgument, message)
}

// render writes either the table text or the json/yaml envelope.
func (s *session) render(table func() string, data any, warnings []string) error {
	if s.format == output.FormatTable {
		text := table()
		for _, warning := range warnings {
			text += "\nwarning: " + warning
		}
		return writeTable(s.cmd, text, s.flags.Output)
	}
	env := output.BuildEnvelope(s.profile, s.restaurantID, data, warnings)
	return writeMachinePayload(s.cmd, env, s.format, s.flags.Output)
}

func (s *session) restaurant() (domain.Restaurant, error) {
	restaurant, err := s.api.FetchRestaurantInfo(s.cmd.Context(), s.restaurantID)
	if err != nil {
		return domain.Restaurant{}, err
	}
	return *restaurant, nil
}

// bindCart opens the cart store for the session restaurant. It is bound
// once, before any cart operation of the command runs.
func (s *session) bindCart() (*cart.Store, error) {
	carts := s.deps.Carts
	if carts == nil {
		carts = storage.NewMemory()
	}
	store := cart.NewStore(carts, cart.WithLogger(s.deps.logger()))
	if err := store.SetRestaurant(s.cmd.Context(), s.restaurantID); err != nil && !errors.Is(err, cart.ErrPersist) {
		return nil, err
	}
	return store, nil
}
