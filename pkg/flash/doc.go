// Package flash keeps a value between a POST and the GET that follows the
// redirect. A value is returned by Pop at most once.
//
// CookieStore keeps the value in an encrypted cookie. RedisStore keeps it in
// Redis and only puts a signed identifier in the cookie, which suits large
// payloads such as old input from long forms.
package flash
