// Package notification delivers rendered notification emails through one of
// two interchangeable channels.
//
// SMTPSender submits directly to the configured SMTP server and supports
// inline attachments linked by content-id. MessagingSender goes through
// Appwrite Messaging: it registers an SMTP provider from the same settings
// when none exists, resolves an Appwrite user record for the recipient, and
// on any messaging failure silently hands the whole send to an internal
// SMTPSender. Callers therefore only ever deal with one Sender and one
// error.
//
// Renderers pick the attachment mode with PreferInlineCid: CID-linked MIME
// parts for SMTP, base64 data URLs for the messaging channel.
package notification
