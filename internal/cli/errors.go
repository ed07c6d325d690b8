package cli

import (
	"errors"
	"strings"

	"github.com/kbukum/personrest/httpclient"
	"github.com/kbukum/personrest/internal/json"
	"github.com/kbukum/personrest/response"
)

// DescribeError renders err for a terminal. Error messages the person
// service put in the response envelope are appended.
func DescribeError(err error) string {
	var hErr *httpclient.Error
	if !errors.As(err, &hErr) || len(hErr.Body) == 0 {
		return err.Error()
	}

	var res response.Result
	if json.Unmarshal(hErr.Body, &res) != nil {
		return err.Error()
	}
	msgs := res.Messages(response.MessageTypeError)
	if len(msgs) == 0 {
		return err.Error()
	}

	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, m.Message)
	}
	return err.Error() + ": " + strings.Join(parts, "; ")
}
