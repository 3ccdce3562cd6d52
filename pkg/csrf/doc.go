// Package csrf issues and verifies request tokens for form posts.
//
// A random seed is kept in a signed cookie. The hidden field name and value
// are both derived from the seed with HMAC, so verification needs no server
// state. Field names always start with the configured prefix, TOKEN by
// default, which lets callers tell token fields apart from user input:
//
//	tok, err := p.Token(w, r)
//	fmt.Fprint(w, tok.HiddenInput())
//
//	// on POST
//	if err := p.Verify(r); err != nil {
//		// reject as forged
//	}
//
// JavaScript clients may send the value in the X-CSRF-Token header instead of
// the form field.
package csrf
