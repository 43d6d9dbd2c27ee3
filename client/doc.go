// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package client is an HTTP client for the audio rating API.

A Client provides the catalog, rating and identity methods the engine
depends on, so the same engine that backs the server can run in a terminal
against a remote one:

	c := client.New("http://localhost:3318", client.DefaultRate, client.DefaultBurst)
	e := engine.New(c, c, c, engine.DefaultMaxConcurrency)

Requests are paced by a token bucket limiter; a cancelled context aborts
the wait. Non-2xx responses are returned as *StatusError, and 404s match
ErrNotFound with errors.Is.
*/
package client
