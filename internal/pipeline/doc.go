// Package pipeline implements the stages that turn one markdown source into
// one HTML page:
//   - preprocessing (line endings, Unicode normalization)
//   - markdown to HTML conversion, with the native engine or goldmark
//   - fragment decoration (styling class, source link rewriting)
//   - page assembly from the page template and theme stylesheet
//
// Every stage takes a context and returns early once it is cancelled.
// None of them keep per-document state, so a single instance of each can
// serve concurrent builds.
package pipeline
