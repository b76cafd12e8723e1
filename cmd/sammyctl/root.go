package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sammy-project/sammy-client-go/api"
	"github.com/sammy-project/sammy-client-go/client"
	"github.com/sammy-project/sammy-client-go/cmd/internal/util"
	"github.com/sammy-project/sammy-client-go/config"
	"github.com/sammy-project/sammy-client-go/internal/version"
)

type rootOptions struct {
	apiBaseURL string
	output     string
	verbose    bool

	logOut io.Writer
}

// newClient resolves the base URL from the environment unless --api-base-url
// is set.
func (o *rootOptions) newClient() (*client.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.apiBaseURL != "" {
		cfg.APIBaseURL = o.apiBaseURL
	}
	log := util.NewLogger("sammyctl", o.logOut, o.verbose)
	return client.New(cfg, client.WithLogger(log))
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	o := &rootOptions{logOut: errOut}

	cmd := &cobra.Command{
		Use:           "sammyctl",
		Short:         "Manage SAMmy systems and components",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch o.output {
			case outputTable, outputJSON:
				return nil
			default:
				return fmt.Errorf("invalid output format %q: must be %q or %q", o.output, outputTable, outputJSON)
			}
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	cmd.PersistentFlags().StringVar(&o.apiBaseURL, "api-base-url", "", "Base URL of the SAMmy API (default $SAMMY_API_BASE_URL or "+config.DefaultAPIBaseURL+").")
	cmd.PersistentFlags().StringVarP(&o.output, "output", "o", outputTable, "Output format, one of: table, json.")
	cmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "Use human-readable development logging.")

	cmd.AddCommand(
		newResourceCommand(o, resourceKind[api.System, api.SystemBase]{
			use:        "systems",
			singular:   "system",
			aliases:    []string{"system", "sys"},
			resource:   (*client.Client).Systems,
			newPayload: func() payloadFlags[api.SystemBase] { return &systemPayload{} },
			header:     []string{"ID", "Name", "Properties"},
			row: func(s api.System) []string {
				return []string{s.ID, s.Name, formatProperties(s.Properties)}
			},
		}),
		newResourceCommand(o, resourceKind[api.ComponentItem, api.ComponentBase]{
			use:        "components",
			singular:   "component",
			aliases:    []string{"component", "comp"},
			resource:   (*client.Client).Components,
			newPayload: func() payloadFlags[api.ComponentBase] { return &componentPayload{} },
			header:     []string{"ID", "Name", "Type", "Properties"},
			row: func(c api.ComponentItem) []string {
				return []string{c.ID, c.Name, c.Type.Label(), formatProperties(c.Properties)}
			},
		}),
		newComponentTypesCommand(o),
		newVersionCommand(),
	)
	return cmd
}

func newComponentTypesCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "component-types",
		Short: "List the allowed component types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			types := api.ComponentTypes()
			if o.output == outputJSON {
				type option struct {
					Label string            `json:"label"`
					Value api.ComponentType `json:"value"`
				}
				options := make([]option, 0, len(types))
				for _, t := range types {
					options = append(options, option{Label: t.Label(), Value: t})
				}
				return printJSON(cmd.OutOrStdout(), options)
			}
			rows := make([][]string, 0, len(types))
			for _, t := range types {
				rows = append(rows, []string{string(t), t.Label()})
			}
			printTable(cmd.OutOrStdout(), []string{"Value", "Label"}, rows)
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the sammyctl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			v, err := version.Parse()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "sammyctl %s\n", v)
			return err
		},
	}
}
