package messages

// Relay carries an opaque session datagram between two room members.
// Clients fill To; the relay overwrites From with the sender's id.
type Relay struct {
	From    string
	To      string
	Payload []byte
}
