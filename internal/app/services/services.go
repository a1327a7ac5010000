// Package services holds the business logic between controllers and repositories.
//
// Services defined in this package:
//   - AuthService: lecturer login, signup and profile lookup
//   - MaterialService: upload, listing, search, file resolution and deletion of lecture materials
//   - CourseService: the per-lecturer course list derived from uploads
package services
