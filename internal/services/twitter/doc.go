// Package twitter talks to the Twitter API on behalf of tweetr.
//
// Client.Submit publishes one tweet through POST /2/tweets, signed with OAuth
// 1.0a using the application credentials and the author's access token. The
// PIN authorisation flow (BeginAuthorization, CompleteAuthorization) obtains
// access tokens for add-user. Failures are wrapped with services markers so
// callers can tell transient faults from rejected tweets.
package twitter
