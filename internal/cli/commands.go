package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kbukum/personrest/person"
	"github.com/kbukum/personrest/version"
)

func (a *app) getCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "get <id>",
		Short:   "Fetch a person by id",
		Args:    cobra.ExactArgs(1),
		Example: "  personctl get 1 --base-url http://localhost:8080/rest",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			resp, err := a.client.FindByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.printer(cmd).person(resp)
		},
	}
}

func (a *app) listCommand() *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List persons, optionally one page at a time",
		Args:  cobra.NoArgs,
		Example: `  personctl list
  personctl list --page 0 --page-size 20 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				resp *person.FindResponse
				err  error
			)
			if cmd.Flags().Changed("page") || cmd.Flags().Changed("page-size") {
				resp, err = a.client.FindPaginated(cmd.Context(), page, pageSize)
			} else {
				resp, err = a.client.Find(cmd.Context())
			}
			if err != nil {
				return err
			}
			return a.printer(cmd).persons(resp)
		},
	}
	cmd.Flags().IntVar(&page, "page", 0, "zero-based page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 10, "number of persons per page")
	return cmd
}

func (a *app) saveCommand() *cobra.Command {
	var p person.Person

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Create a person, or update it when --id is set",
		Args:  cobra.NoArgs,
		Example: `  personctl save --first-name Ada --last-name Lovelace
  personctl save --id 1 --first-name Ada --last-name King`,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := a.client.Save(cmd.Context(), &p)
			if err != nil {
				return err
			}
			return a.printer(cmd).person(resp)
		},
	}
	cmd.Flags().Int64Var(&p.ID, "id", 0, "id of the person to update")
	cmd.Flags().StringVar(&p.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&p.LastName, "last-name", "", "last name")
	return cmd
}

func (a *app) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a person by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			result, err := a.client.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.printer(cmd).result(result)
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: must be an integer", s)
	}
	return id, nil
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// no configuration or client needed
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			p := a.printer(cmd)
			if p.asJSON {
				return p.printJSON(info)
			}
			_, err := fmt.Fprintln(p.out, info.String())
			return err
		},
	}
}
