// Package upload validates file uploads against declarative acceptance
// policies and generates collision-resistant storage names.
//
// A Policy bundles the three acceptance rules for a class of uploads:
// a size limit, a filename extension allow-list, and a declared MIME
// type allow-list. Validation runs the checks in that order and stops
// at the first failure, returning a *ValidationError whose Message
// names the violated constraint so it can be surfaced to the client
// verbatim.
//
// Validation looks only at the payload size and the client-declared
// metadata. It never sniffs the payload bytes: an acceptance gate based
// on magic numbers is trivially satisfied by polyglot files, so content
// inspection belongs at serving time, not here.
//
// Usage:
//
//	policy := upload.ImagePolicy()
//	if err := policy.Validate(data, "photo.jpg", "image/jpeg"); err != nil {
//		var verr *upload.ValidationError
//		if errors.As(err, &verr) {
//			// verr.Code is machine-readable, verr.Message is for humans.
//		}
//	}
//
//	name := upload.StorageName("photo.jpg") // "01J8ZQ3F...9XKT.jpg"
//
// Policies can be built literally, taken from the ImagePolicy and
// DocumentPolicy presets, or loaded as a named set from YAML:
//
//	policies:
//	  avatar:
//	    max_file_size: 5242880
//	    allowed_extensions: [jpg, jpeg, png, webp]
//	    allowed_mime_types: ["image/*"]
//	  default:
//	    max_file_size: 10485760
//
//	set, err := upload.LoadPoliciesFile("uploads.yaml")
//	policy, ok := set.Get("avatar")
//
// A PolicySet resolves unknown names to its "default" entry, letting a
// handler accept arbitrary upload type labels with one catch-all rule.
//
// Policy values are immutable after construction and safe for
// concurrent use.
package upload
