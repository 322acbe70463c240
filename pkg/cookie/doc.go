// Package cookie issues and reads HTTP cookies through a [Manager] that
// carries one attribute profile, so every cookie a service sets agrees on
// Path, Domain, Secure, HttpOnly, and SameSite.
//
// With a secret configured the Manager can also sign values with
// HMAC-SHA256. That lets a client hold small state, an upload wizard
// step or a flash message, without being able to forge it.
//
// # Plain cookies
//
// No secret is needed for unsigned cookies:
//
//	m := cookie.New()
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		m.Set(w, "preferred_disk", "s3", 86400)
//
//		disk, err := m.Get(r, "preferred_disk")
//		if errors.Is(err, cookie.ErrNotFound) {
//			disk = "local"
//		}
//	}
//
// [Manager.Delete] expires a cookie by name.
//
// # Signed cookies
//
// Signing needs a secret of at least 32 bytes:
//
//	m := cookie.New(
//		cookie.WithSecret(os.Getenv("COOKIE_SECRET")),
//		cookie.WithSecure(true),
//	)
//
//	if err := m.SetSigned(w, "upload_session", token, 86400); err != nil {
//		return err
//	}
//
//	token, err := m.GetSigned(r, "upload_session")
//
// The wire form is base64(value).base64(mac). [Manager.GetSigned] returns
// [ErrBadSig] for anything that does not verify, whether the value or the
// signature was touched.
//
// # Options
//
//   - [WithSecret] enables the Signed methods
//   - [WithDomain], [WithPath] scope the cookie (path defaults to "/")
//   - [WithSecure], [WithHTTPOnly] set the transport flags (HttpOnly on
//     by default)
//   - [WithSameSite] sets the SameSite attribute (Lax by default)
//
// # Errors
//
//   - [ErrNotFound]: the named cookie is not on the request
//   - [ErrNoSecret]: a Signed method was called with no secret configured
//   - [ErrBadSecret]: the configured secret is under 32 bytes
//   - [ErrBadSig]: the signature did not verify
package cookie
