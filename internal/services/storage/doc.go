// Package storage uploads asset payloads to the configured asset store and
// returns the URI later embedded in token metadata.
//
// Two backends are provided. HTTPUploader posts multipart uploads to a
// storage endpoint that answers with {"uri": "..."}. S3Uploader writes objects
// to an S3-compatible bucket through minio-go. NewFromConfig selects one from
// the [storage] config section.
package storage
