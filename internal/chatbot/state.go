package chatbot

// State is one step of the verification conversation. The concrete types
// below are the only implementations.
type State interface {
	step() string
}

// Greeting waits for the first message of a conversation.
type Greeting struct{}

// AwaitingDNI shows three national ID numbers; Correct is the 1-based
// position of the participant's own.
type AwaitingDNI struct {
	Options [3]string
	Correct int
}

// AwaitingAddress shows three addresses; Correct is the 1-based position of
// the registered one.
type AwaitingAddress struct {
	Options [3]string
	Correct int
}

// AwaitingCurrency asks which currencies the participant holds deposits in.
type AwaitingCurrency struct {
	Expected Holding
}

// Authenticated shows the self-service menu.
type Authenticated struct{}

func (Greeting) step() string         { return "GREETING" }
func (AwaitingDNI) step() string      { return "AWAITING_DNI" }
func (AwaitingAddress) step() string  { return "AWAITING_ADDRESS" }
func (AwaitingCurrency) step() string { return "AWAITING_CURRENCY" }
func (Authenticated) step() string    { return "AUTHENTICATED" }

// Session is the conversation state carried between messages. It holds the
// expected answers, so it stays with the server and is never sent to a
// client.
type Session struct {
	Phone string
	State State
}

// StepName returns the wire name of the session's current state.
func (s Session) StepName() string {
	if s.State == nil {
		return Greeting{}.step()
	}
	return s.State.step()
}

// Options returns the choices shown to the participant at the current
// step, or nil when the step has none. The correct position is never
// exposed.
func (s Session) Options() []string {
	switch st := s.State.(type) {
	case AwaitingDNI:
		return append([]string(nil), st.Options[:]...)
	case AwaitingAddress:
		return append([]string(nil), st.Options[:]...)
	}
	return nil
}
