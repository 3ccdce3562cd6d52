// Package simpleforms processes declaratively configured form submissions.
//
// A Processor recognizes POSTs to <prefix>/<form>, loads the form definition
// from a directory of config.json files, verifies the request token,
// validates and sanitizes the fields and sends the configured notification
// emails. Every submission ends in exactly one response: a JSON body for
// script clients, or a flash entry plus a redirect back to the referring page
// for plain HTML forms.
//
//	p := simpleforms.New(registry, dispatcher, store,
//		simpleforms.WithVerifier(protector),
//		simpleforms.WithLogger(log),
//	)
//	http.ListenAndServe(":8080", p.Middleware(site))
//
// On the page that follows the redirect, Consume returns the flashed outcome
// together with the submitted input so the form can be filled in again.
package simpleforms
