// Package storage provides file storage backends behind a common interface.
//
// Two backends are included: S3Storage for S3-compatible object storage
// (AWS S3, MinIO, DigitalOcean Spaces) and LocalStorage for the local
// filesystem. Applications that serve several storage targets register
// them in a Disks registry and resolve them by name at request time.
//
// # Basic Usage
//
// Point a client at a bucket and start uploading:
//
//	store, err := storage.New(storage.Config{
//		Bucket:    "intake-media",
//		AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
//		SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
//		PublicURL: "https://cdn.example.com",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	info, err := store.Put(ctx, file, size,
//		storage.WithTenant(tenantID),
//		storage.WithPrefix("avatars"),
//		storage.WithContentType("image/png"),
//		storage.WithACL(storage.ACLPublicRead),
//	)
//
// When no key is given, one is generated as {tenant}/{prefix}/{ulid}.{ext}.
// Pass WithKey to store under an exact key instead.
//
// # Disks
//
// Register multiple backends and resolve them by name:
//
//	disks := storage.NewDisks()
//	disks.Register("uploads", s3Store)
//	disks.Register("tmp", localStore)
//
//	disk, err := disks.Get("uploads")
//
// The first registered disk becomes the default; Get("") returns it.
//
// # URL Generation
//
// URL picks signed or public form from the object's ACL; options override:
//
//	url, err := store.URL(ctx, info.Key)                             // signed, 15m
//	url, err := store.URL(ctx, info.Key, storage.WithSigned(time.Hour))
//	url, err := store.URL(ctx, info.Key, storage.WithDownload("report.pdf"))
//	url, err := store.URL(ctx, info.Key, storage.WithPublic())       // CDN form
//
// # Content Types
//
// The content type passed via WithContentType is stored as metadata and
// returned by MimeType. When no type is given, the backend sniffs the
// leading bytes as a fallback for serving. Upload acceptance rules
// belong in the upload package, not here.
package storage
