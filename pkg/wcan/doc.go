// Package wcan provides a reliable message layer over a broadcast radio link.
package wcan

// Messages are CAN style: a 16-bit identifier plus a short payload. The radio
// link (e.g. ESP-NOW) only offers best-effort datagrams, so every data frame
// is acknowledged by the receiver with a unicast frame carrying the reserved
// AckID and the identifier being acknowledged.
//
// The sender keeps exactly one message in flight. Until it is acknowledged,
// the message is retransmitted periodically up to MaxRetry times, then
// abandoned. Later messages wait in a bounded queue, so the order in which
// messages reach the link is the order they were submitted.
//
// Producer: application (Node.Submit)
// Consumer: application (MessageHandler) on the peer node
