// Package email sends notification emails.
//
// Three EmailSender implementations are provided:
//
//   - NewPostmarkClient delivers through the Postmark HTTP API.
//   - NewSMTPSender delivers through any SMTP relay, with optional STARTTLS
//     or implicit TLS.
//   - NewDevSender writes each message to disk as .txt, .html and .json files
//     so templates can be checked without sending anything.
//
// Every sender validates SendEmailParams before delivery.
package email
