// Package photofolio provides the core library for a photography portfolio
// backend: uploading images to a blob store, keeping a keyed metadata record
// consistent with that store, and serving, listing and deleting images.
//
// The package exposes a Service constructed with functional options:
//
//	svc, err := photofolio.New(
//	    photofolio.WithMetadataStore(repomemory.New()),
//	    photofolio.WithBlobStore(memorystorage.New()),
//	)
//
// Blob storage (memory, filesystem, S3) and metadata persistence (memory,
// flat JSON file, Postgres) are pluggable through the BlobStore and
// MetadataStore interfaces. The blob store and the metadata store are two
// independent systems updated sequentially; consistency between them is
// best effort, not transactional.
package photofolio
