// Package messenger sends and receives encrypted messages through a
// bulletin client.
//
// It labels each outgoing message with its UTC send time, validates fetched
// records against the service's receipt timestamp to spot replayed or
// duplicated records, and tracks the latest sent and received message in
// session memory.
package messenger
