// Package rustmaps provides a client for the RustMaps map-generation API.
//
// The package is organized into a few small pieces:
//
//   - Route: an HTTP method, a path and ordered query parameters
//   - HTTPClient: the transport, owning one lazily opened session
//   - RequestError: typed failures selected by HTTP status code
//   - Client: the map operations, built on top of HTTPClient
//
// # Usage
//
//	logger := zerolog.New(os.Stderr)
//	client, err := rustmaps.NewClient("your-api-key", rustmaps.WithLogger(logger))
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	m, err := client.GetMapBySeedSize(ctx, 1337, 4500)
//	if err != nil {
//		log.Fatal(err) // network failure
//	}
//	if m == nil {
//		// not found, forbidden, still generating, ...
//	}
//
// # Error Handling
//
// Client methods return a nil result for every API error. To tell them
// apart, send a route through the transport and inspect the error:
//
//	_, err := client.HTTP().Request(ctx, rustmaps.NewRoute(rustmaps.MethodGet, "/maps/limits"),
//		map[string]string{"X-API-Key": key})
//	switch {
//	case errors.Is(err, rustmaps.ErrNotFinishedGenerating):
//		// retry later
//	case errors.Is(err, rustmaps.ErrUnauthorized):
//		// the session has been closed; fix the key
//	}
package rustmaps
