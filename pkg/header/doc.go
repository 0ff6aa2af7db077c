// Package header provides common header types for guestctl data structures.
//
// The Header type is embedded in serialized documents (state archive
// manifests, node directory dumps) to provide consistent metadata and
// versioning information:
//
//	header := header.New(
//	    header.WithKind(header.KindStateArchive),
//	    header.WithAPIVersion("v1"),
//	    header.WithMetadata("cluster", "production"),
//	)
//
// Init populates a unique id, creation timestamp, and tool version:
//
//	var h header.Header
//	h.Init(header.KindStateArchive, "v1", version)
package header
