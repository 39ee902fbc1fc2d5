// Package sms implements GSM 03.38 text handling: downgrading rich
// punctuation to characters a handset can show, deciding when a message
// needs the wide (UCS-2) encoding, and counting billable fragments.
package sms
