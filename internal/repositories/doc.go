// Package repositories reads the bot's JSON database.
//
// A [DocumentRepository] loads one file per call. The bot rewrites the file in place without locking, so a
// read can observe a partial write; reads are retried a bounded number of times with a growing delay.
//
// Failure classes:
//   - missing file or path component: empty [models.Document], no error
//   - malformed JSON: [*MalformedError] wrapping [shared.ErrMalformedSource], with a snippet of the raw content
//   - top level not an object: [shared.ErrInvalidFormat]
//   - anything else: [shared.ErrReadFailed]
package repositories
