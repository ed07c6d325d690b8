// Package person is the typed client for the remote Person resource.
//
// The Client translates five logical operations into calls on a Transport
// and does nothing else: no validation, no retries, no caching, and no
// translation of errors. URL templates are looked up by request name and
// path variables are bound by the transport.
//
//	transport, err := rest.NewFromConfig(rest.Config{
//	    HTTP:   httpclient.Config{BaseURL: "http://localhost:8080/rest"},
//	    Routes: person.DefaultRoutes(),
//	})
//	client := person.New(transport, log)
//
//	resp, err := client.FindByID(ctx, 1)
package person
