package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sammy-project/sammy-client-go/api"
	"github.com/sammy-project/sammy-client-go/client"
)

// payloadFlags binds the flags of a create or update command and turns them
// into the request payload.
type payloadFlags[B any] interface {
	bind(cmd *cobra.Command)
	build() (B, error)
}

type resourceKind[R any, B any] struct {
	use        string
	singular   string
	aliases    []string
	resource   func(*client.Client) *client.ResourceClient[R, B]
	newPayload func() payloadFlags[B]
	header     []string
	row        func(R) []string
}

func newResourceCommand[R any, B any](o *rootOptions, k resourceKind[R, B]) *cobra.Command {
	cmd := &cobra.Command{
		Use:     k.use,
		Aliases: k.aliases,
		Short:   fmt.Sprintf("Manage %s", k.use),
	}

	// withResource builds the client lazily so that flag errors surface
	// before configuration errors.
	withResource := func(run func(cmd *cobra.Command, args []string, rc *client.ResourceClient[R, B]) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			c, err := o.newClient()
			if err != nil {
				return err
			}
			return run(cmd, args, k.resource(c))
		}
	}

	printItems := func(cmd *cobra.Command, items ...R) error {
		if o.output == outputJSON {
			if len(items) == 1 {
				return printJSON(cmd.OutOrStdout(), items[0])
			}
			return printJSON(cmd.OutOrStdout(), items)
		}
		rows := make([][]string, 0, len(items))
		for _, item := range items {
			rows = append(rows, k.row(item))
		}
		printTable(cmd.OutOrStdout(), k.header, rows)
		return nil
	}

	list := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List all %s", k.use),
		Args:  cobra.NoArgs,
		RunE: withResource(func(cmd *cobra.Command, _ []string, rc *client.ResourceClient[R, B]) error {
			items, err := rc.List(cmd.Context())
			if err != nil {
				return err
			}
			if o.output == outputJSON {
				return printJSON(cmd.OutOrStdout(), items)
			}
			return printItems(cmd, items...)
		}),
	}

	get := &cobra.Command{
		Use:   "get ID",
		Short: fmt.Sprintf("Show a %s", k.singular),
		Args:  cobra.ExactArgs(1),
		RunE: withResource(func(cmd *cobra.Command, args []string, rc *client.ResourceClient[R, B]) error {
			item, err := rc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printItems(cmd, *item)
		}),
	}

	createPayload := k.newPayload()
	create := &cobra.Command{
		Use:   "create",
		Short: fmt.Sprintf("Create a %s", k.singular),
		Args:  cobra.NoArgs,
		RunE: withResource(func(cmd *cobra.Command, _ []string, rc *client.ResourceClient[R, B]) error {
			payload, err := createPayload.build()
			if err != nil {
				return err
			}
			item, err := rc.Create(cmd.Context(), payload)
			if err != nil {
				return err
			}
			return printItems(cmd, *item)
		}),
	}
	createPayload.bind(create)

	updatePayload := k.newPayload()
	update := &cobra.Command{
		Use:   "update ID",
		Short: fmt.Sprintf("Replace a %s", k.singular),
		Args:  cobra.ExactArgs(1),
		RunE: withResource(func(cmd *cobra.Command, args []string, rc *client.ResourceClient[R, B]) error {
			payload, err := updatePayload.build()
			if err != nil {
				return err
			}
			item, err := rc.Update(cmd.Context(), args[0], payload)
			if err != nil {
				return err
			}
			return printItems(cmd, *item)
		}),
	}
	updatePayload.bind(update)

	del := &cobra.Command{
		Use:   "delete ID",
		Short: fmt.Sprintf("Delete a %s", k.singular),
		Args:  cobra.ExactArgs(1),
		RunE: withResource(func(cmd *cobra.Command, args []string, rc *client.ResourceClient[R, B]) error {
			if _, err := rc.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %s\n", k.singular, args[0])
			return err
		}),
	}

	cmd.AddCommand(list, get, create, update, del)
	return cmd
}

type systemPayload struct {
	name       string
	properties []string
}

func (p *systemPayload) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.name, "name", "", "Name of the system (required).")
	cmd.Flags().StringArrayVar(&p.properties, "property", nil, "Property as key=value; may be repeated.")
	_ = cmd.MarkFlagRequired("name")
}

func (p *systemPayload) build() (api.SystemBase, error) {
	props, err := parseProperties(p.properties)
	if err != nil {
		return api.SystemBase{}, err
	}
	return api.SystemBase{Name: p.name, Properties: props}, nil
}

type componentPayload struct {
	name       string
	typ        string
	properties []string
}

func (p *componentPayload) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.name, "name", "", "Name of the component (required).")
	cmd.Flags().StringVar(&p.typ, "type", "", "Component type, one of: hardware, software, database, people, process (required).")
	cmd.Flags().StringArrayVar(&p.properties, "property", nil, "Property as key=value; may be repeated.")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("type")
}

func (p *componentPayload) build() (api.ComponentBase, error) {
	typ, err := api.ParseComponentType(p.typ)
	if err != nil {
		return api.ComponentBase{}, err
	}
	props, err := parseProperties(p.properties)
	if err != nil {
		return api.ComponentBase{}, err
	}
	return api.ComponentBase{Name: p.name, Type: typ, Properties: props}, nil
}

func parseProperties(raw []string) ([]api.Property, error) {
	var props []api.Property
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid property %q: expected key=value", kv)
		}
		props = append(props, api.Property{Key: key, Value: value})
	}
	return props, nil
}
