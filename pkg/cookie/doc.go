// Package cookie sets plain, signed and encrypted cookies and one-shot
// flash cookies.
//
// Every secret passed to New is expanded with HKDF into a signing key and
// an encryption key. The first secret is used for new cookies; the others are
// still accepted when reading, which allows rotating secrets without
// invalidating cookies already issued. Signatures and ciphertexts are bound to
// the cookie name, so a value cannot be replayed under a different name.
//
//	m, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")}, cookie.WithSecure(true))
//	err = m.SetFlash(w, "response", envelope)
//	err = m.GetFlash(w, r, "response", &envelope) // reads and deletes
package cookie
