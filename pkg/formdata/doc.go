// Package formdata decodes buffered multipart/form-data request bodies.
//
// Unlike mime/multipart, the decoder works on a fully buffered body and
// returns parts whose Data slices alias that buffer, so file payloads are
// never copied or re-encoded. It is also deliberately lenient: malformed
// or truncated input yields the well-formed parts found before the
// damage instead of an error, which keeps uploads working when clients
// cut connections or send sloppy framing.
//
//	boundary, err := formdata.Boundary(r.Header.Get("Content-Type"))
//	if err != nil {
//		// not a multipart request
//	}
//	for _, part := range formdata.Decode(body, boundary) {
//		if part.IsFile() {
//			// part.Filename, part.ContentType, part.Data
//		}
//	}
package formdata
