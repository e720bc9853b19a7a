package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var sharedGlobalOptionOrder = []string{
	"format",
	"profile",
	"restaurant",
	"output",
	"verbose",
}

// NewRootCommand builds the complete command tree.
func NewRootCommand(deps Dependencies) *cobra.Command {
	version := resolvedVersion(deps.Version)

	root := &cobra.Command{
		Use:           "tableorder",
		Short:         "Browse a restaurant menu from its QR link, fill a cart, and place a table order.",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			showVersion, _ := cmd.Flags().GetBool("version")
			if showVersion {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), version)
				return errVersionShown
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			enableVerboseLogging(cmd, deps)
			showVersion, _ := cmd.Flags().GetBool("version")
			if !showVersion {
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), version)
			return errVersionShown
		},
	}
	root.Flags().BoolP("version", "v", false, "Show CLI version and exit.")
	root.SetHelpCommand(&cobra.Command{Hidden: true})
	defaultHelpFunc := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd == root {
			renderRootHelp(cmd.OutOrStdout(), root)
			return
		}
		defaultHelpFunc(cmd, args)
	})

	root.AddCommand(newRestaurantCommand(deps))
	root.AddCommand(newMenuCommand(deps))
	root.AddCommand(newCartCommand(deps))
	root.AddCommand(newCheckoutCommand(deps))
	root.AddCommand(newConfigureCommand(deps))
	root.AddCommand(newServeMockCommand(deps))

	return root
}

// enableVerboseLogging raises the shared log level to debug so gateway
// request traces and failure causes reach stderr.
func enableVerboseLogging(cmd *cobra.Command, deps Dependencies) {
	if cmd == nil || deps.LogLevel == nil {
		return
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return
	}
	deps.LogLevel.SetLevel(zap.DebugLevel)
}

func renderRootHelp(out io.Writer, root *cobra.Command) {
	_, _ = fmt.Fprintf(out, "%s: %s\n\n", root.Name(), root.Short)
	_, _ = fmt.Fprintf(out, "usage: %s <command> [options]\n", root.Name())
	_, _ = fmt.Fprintln(out, "global options:")
	for _, option := range rootOptions(root) {
		_, _ = fmt.Fprintf(out, "  %s%s: %s\n", option.token, optionLabels(option), option.usage)
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "commands:")
	for _, cmd := range visibleCommands(root) {
		_, _ = fmt.Fprintf(out, "  %s\n", cmd.Name())
		_, _ = fmt.Fprintf(out, "    %s\n", cmd.Short)
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "notes:")
	_, _ = fmt.Fprintln(out, "  - --restaurant accepts a restaurant id or the URL encoded in the table QR code.")
	_, _ = fmt.Fprintln(out, "  - carts are kept per restaurant and survive between runs until the order is placed.")
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "full reference:")
	emitReference(out, root, root.Name())
}

func visibleCommands(parent *cobra.Command) []*cobra.Command {
	commands := make([]*cobra.Command, 0)
	for _, cmd := range parent.Commands() {
		if cmd.Hidden {
			continue
		}
		commands = append(commands, cmd)
	}
	return commands
}

func emitReference(out io.Writer, parent *cobra.Command, path string) {
	for _, cmd := range visibleCommands(parent) {
		_, _ = fmt.Fprintf(out, "- %s\n", strings.TrimSpace(path+" "+cmd.Use))
		_, _ = fmt.Fprintf(out, "  %s\n", cmd.Short)
		if options := commandOptions(cmd); len(options) > 0 {
			_, _ = fmt.Fprintln(out, "  options:")
			for _, option := range options {
				_, _ = fmt.Fprintf(out, "    %s%s: %s\n", option.token, optionLabels(option), option.usage)
			}
		}
		_, _ = fmt.Fprintln(out)
		emitReference(out, cmd, strings.TrimSpace(path+" "+cmd.Name()))
	}
}

type optionDoc struct {
	name     string
	token    string
	usage    string
	required bool
	shared   bool
}

// rootOptions lists the root flags followed by the shared per-command
// globals, in their declared order.
func rootOptions(root *cobra.Command) []optionDoc {
	options := collectOptionDocs(root.Flags())
	discovered := map[string]optionDoc{}
	var walk func(*cobra.Command)
	walk = func(parent *cobra.Command) {
		for _, cmd := range visibleCommands(parent) {
			for _, option := range collectOptionDocs(cmd.NonInheritedFlags()) {
				if !option.shared {
					continue
				}
				if _, ok := discovered[option.name]; !ok {
					discovered[option.name] = option
				}
			}
			walk(cmd)
		}
	}
	walk(root)
	for _, name := range sharedGlobalOptionOrder {
		if option, ok := discovered[name]; ok {
			options = append(options, option)
		}
	}
	return options
}

// commandOptions lists command-specific flags; shared globals are documented once at the root.
func commandOptions(cmd *cobra.Command) []optionDoc {
	options := make([]optionDoc, 0)
	for _, option := range collectOptionDocs(cmd.NonInheritedFlags()) {
		if option.shared {
			continue
		}
		options = append(options, option)
	}
	return options
}

func collectOptionDocs(flags *pflag.FlagSet) []optionDoc {
	options := make([]optionDoc, 0)
	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Hidden || flag.Name == "help" {
			return
		}
		token := "--" + flag.Name
		if flag.Shorthand != "" {
			token += "/-" + flag.Shorthand
		}
		options = append(options, optionDoc{
			name:     flag.Name,
			token:    token,
			usage:    strings.TrimSpace(flag.Usage),
			required: hasTrueAnnotation(flag, cobra.BashCompOneRequiredFlag),
			shared:   hasTrueAnnotation(flag, sharedGlobalFlagAnnotation),
		})
	})
	sort.Slice(options, func(i, j int) bool {
		return options[i].name < options[j].name
	})
	return options
}

func hasTrueAnnotation(flag *pflag.Flag, key string) bool {
	if flag == nil || flag.Annotations == nil {
		return false
	}
	values, ok := flag.Annotations[key]
	if !ok || len(values) == 0 {
		return false
	}
	return strings.EqualFold(values[0], "true") || values[0] == "1"
}

func optionLabels(option optionDoc) string {
	if option.required {
		return " [required]"
	}
	return ""
}
