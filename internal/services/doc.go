// Package services derives YouTube metadata from stored song links.
//
// [VideoID] understands watch links, short links (youtu.be), embeds and shorts. Parsing never fails:
// an unrecognized link yields an empty id, and [ThumbnailURL] of an empty id is empty.
package services
