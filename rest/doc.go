// Package rest is the transport helper typed resource clients are built on.
//
// It resolves logical request names to URL templates, binds {name}
// placeholders to values, and issues JSON requests through an
// httpclient.Adapter:
//
//	c, err := rest.NewFromConfig(rest.Config{
//	    HTTP:   httpclient.Config{BaseURL: "http://localhost:8080/rest"},
//	    Routes: map[string]string{"person.findById": "/person/{id}"},
//	})
//
//	url, err := c.URL("person.findById")
//	var out PersonResponse
//	err = c.Get(ctx, url, &out, map[string]any{"id": 7})
//
// Failures are the adapter's classified *httpclient.Error values; decoding
// failures carry httpclient.ErrCodeDecode.
package rest
