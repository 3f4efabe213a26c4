// Package github asks GitHub about submission repositories.
//
// The grader uses it for two things a failed clone cannot tell it: whether a
// repository exists but is private, and which branches it has when the local
// listing fails.
//
// # Authentication
//
// A token is optional. With one, requests carry it through an oauth2 static
// token source and get the authenticated quota of 5,000 requests per hour.
// Without one, requests are anonymous and limited to 60 per hour; private
// repositories then look exactly like missing ones.
//
// # Rate Limiting
//
// Requests pass through a dual-strategy limiter:
//
//  1. Proactive throttling: a token bucket limits the request rate.
//
//  2. Reactive handling: X-RateLimit-Remaining and X-RateLimit-Reset headers
//     are tracked, and requests wait for the reset once the remaining quota
//     drops below a small buffer.
//
// Rate limit and server errors unwrap to domain.ErrHostUnavailable; a 404
// unwraps to domain.ErrNotFound.
package github
