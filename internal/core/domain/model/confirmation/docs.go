// Package confirmation models the delivery-confirmation protocol: the payloads a
// scanned QR code may carry, the identity of the deliverer presenting it, and the
// typed rejections the protocol can produce.
//
// A QR code encodes one of two formats:
//
//	{"order_id":"O1","type":"delivery_confirmation","hash":"abc123","timestamp":1700000000000}
//	delivery_confirmation_tag:O1:abc123
//
// Decode resolves the format by trying the structured form first and falling back
// to the compact form. Every failure is returned as a *RejectionError; Decode never
// panics.
package confirmation
