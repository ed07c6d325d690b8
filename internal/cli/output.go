package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/kbukum/personrest/internal/json"
	"github.com/kbukum/personrest/person"
	"github.com/kbukum/personrest/response"
)

type printer struct {
	out    io.Writer
	asJSON bool
}

func (a *app) printer(cmd *cobra.Command) *printer {
	return &printer{out: cmd.OutOrStdout(), asJSON: a.jsonOutput}
}

func (p *printer) person(resp *person.Response) error {
	if p.asJSON {
		return p.printJSON(resp)
	}
	if resp == nil || resp.Results == nil {
		p.messages(resultOf(resp))
		_, err := fmt.Fprintln(p.out, pterm.Warning.Sprint("no person returned"))
		return err
	}
	if err := p.table([]person.Person{*resp.Results}); err != nil {
		return err
	}
	p.messages(&resp.Result)
	return nil
}

func (p *printer) persons(resp *person.FindResponse) error {
	if p.asJSON {
		return p.printJSON(resp)
	}
	if resp == nil {
		return nil
	}
	if err := p.table(resp.Results); err != nil {
		return err
	}
	_, err := fmt.Fprintf(p.out, "%d of %d persons\n", len(resp.Results), resp.Count)
	if err != nil {
		return err
	}
	p.messages(&resp.Result)
	return nil
}

func (p *printer) result(res *response.Result) error {
	if p.asJSON {
		return p.printJSON(res)
	}
	if res == nil || len(res.MessageList) == 0 {
		_, err := fmt.Fprintln(p.out, pterm.Success.Sprint("done"))
		return err
	}
	p.messages(res)
	return nil
}

func (p *printer) table(persons []person.Person) error {
	data := pterm.TableData{{"ID", "First name", "Last name", "Created", "Last updated"}}
	for _, ps := range persons {
		data = append(data, []string{
			strconv.FormatInt(ps.ID, 10),
			ps.FirstName,
			ps.LastName,
			formatTime(ps.Created),
			formatTime(ps.LastUpdated),
		})
	}
	s, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.out, s)
	return err
}

func (p *printer) messages(res *response.Result) {
	if res == nil {
		return
	}
	for _, m := range res.MessageList {
		text := m.Message
		if len(m.MessageArgs) > 0 {
			text += " (" + strings.Join(m.MessageArgs, ", ") + ")"
		}
		switch m.MessageType {
		case response.MessageTypeError:
			fmt.Fprint(p.out, pterm.Error.Sprintln(text))
		case response.MessageTypeWarn:
			fmt.Fprint(p.out, pterm.Warning.Sprintln(text))
		default:
			fmt.Fprint(p.out, pterm.Info.Sprintln(text))
		}
	}
}

func (p *printer) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.out, string(data))
	return err
}

func resultOf(resp *person.Response) *response.Result {
	if resp == nil {
		return nil
	}
	return &resp.Result
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Local().Format(time.DateTime)
}
