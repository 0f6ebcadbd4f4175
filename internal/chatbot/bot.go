// Package chatbot is the investor self-service conversation: three
// verification questions followed by an account menu.
package chatbot

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"ticket-ledger/internal/model"
)

var decoyAddresses = []string{
	"Calle Los Olivos 456",
	"Jr. San Martin 789",
	"Av. Arequipa 101",
	"Calle Las Begonias 222",
}

const (
	answerPrompt = "Please answer 1, 2 or 3."
	menuPrompt   = "Choose another option or type 'exit'."
	menu         = "How can I help you today?\n1. Account statement\n2. Last deposit\n3. Withholding tax certificate"
)

// Bot drives conversations. Step is deterministic for a given rng seed.
type Bot struct {
	dir Directory
	rng *rand.Rand
	now func() time.Time

	// Strict rejects wrong verification answers. When false any of 1, 2 or
	// 3 is accepted, which is how the demo channel runs.
	Strict bool
}

func New(dir Directory, rng *rand.Rand) *Bot {
	return &Bot{dir: dir, rng: rng, now: time.Now}
}

// Step consumes one message and returns the reply and the next session.
// The input session is never modified.
func (b *Bot) Step(s Session, input string) (string, Session) {
	input = strings.TrimSpace(input)

	if s.State == nil {
		s.State = Greeting{}
	}
	p, ok := b.dir.Lookup(s.Phone)
	if !ok {
		return "This number is not registered with the fund.", Session{Phone: s.Phone, State: Greeting{}}
	}

	switch st := s.State.(type) {
	case Greeting:
		options, correct := b.options(p.DNI, b.decoyDNIs(p.DNI))
		next := Session{Phone: s.Phone, State: AwaitingDNI{Options: options, Correct: correct}}
		return fmt.Sprintf("Hello %s! Welcome to the investor channel.\n\nTo continue, select your DNI:\n%s\n\n(Type 1, 2 or 3)",
			p.Name, numbered(options[:])), next

	case AwaitingDNI:
		choice, ok := parseChoice(input)
		if !ok {
			return answerPrompt, s
		}
		if b.Strict && choice != st.Correct {
			return b.reject(s)
		}
		options, correct := b.options(p.Address, b.decoyAddresses())
		next := Session{Phone: s.Phone, State: AwaitingAddress{Options: options, Correct: correct}}
		return "Answer recorded.\n\nNow select your registered address:\n" + numbered(options[:]), next

	case AwaitingAddress:
		choice, ok := parseChoice(input)
		if !ok {
			return answerPrompt, s
		}
		if b.Strict && choice != st.Correct {
			return b.reject(s)
		}
		next := Session{Phone: s.Phone, State: AwaitingCurrency{Expected: p.Holding}}
		return "Answer recorded.\n\nLast question: which deposits do you hold with us?\n" +
			numbered([]string{"Soles", "Dollars", "Both"}), next

	case AwaitingCurrency:
		choice, ok := parseChoice(input)
		if !ok {
			return answerPrompt, s
		}
		if b.Strict && Holding(choice) != st.Expected {
			return b.reject(s)
		}
		return "Verification complete.\n\n" + menu, Session{Phone: s.Phone, State: Authenticated{}}

	case Authenticated:
		return b.menu(p, s, input)
	}

	return "Session error. Say hello to start again.", Session{Phone: s.Phone, State: Greeting{}}
}

func (b *Bot) menu(p Participant, s Session, input string) (string, Session) {
	switch strings.ToLower(input) {
	case "1":
		return fmt.Sprintf("Account statement\nTotal balance: %s\n(as of %s)\n\n%s",
			model.FormatMoney(p.Balance, p.Currency), b.now().Format("02/01/2006"), menuPrompt), s
	case "2":
		return fmt.Sprintf("Last deposit\nDate: %s\nAmount: %s\n\n%s",
			p.LastDeposit.Format("02/01/2006"), model.FormatMoney(p.LastDepositAmount, p.Currency), menuPrompt), s
	case "3":
		return fmt.Sprintf("Withholding certificate\nYour %d income tax withholding certificate has been generated.\n[ATTACHMENT: withholding_certificate_%d.pdf]\n\n%s",
			b.now().Year(), b.now().Year(), menuPrompt), s
	case "exit", "salir":
		return "Goodbye! Thank you for contacting us.", Session{Phone: s.Phone, State: Greeting{}}
	}
	return answerPrompt, s
}

func (b *Bot) reject(s Session) (string, Session) {
	return "We could not verify your identity. Say hello to start again.", Session{Phone: s.Phone, State: Greeting{}}
}

// options shuffles the correct value among the decoys and returns the
// 1-based position of the correct one.
func (b *Bot) options(correct string, decoys [2]string) ([3]string, int) {
	opts := [3]string{decoys[0], decoys[1], correct}
	b.rng.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
	for i, o := range opts {
		if o == correct {
			return opts, i + 1
		}
	}
	return opts, 0
}

func (b *Bot) decoyDNIs(real string) [2]string {
	var out [2]string
	for i := 0; i < len(out); {
		d := strconv.Itoa(10000000 + b.rng.Intn(90000000))
		if d == real || (i == 1 && d == out[0]) {
			continue
		}
		out[i] = d
		i++
	}
	return out
}

func (b *Bot) decoyAddresses() [2]string {
	perm := b.rng.Perm(len(decoyAddresses))
	return [2]string{decoyAddresses[perm[0]], decoyAddresses[perm[1]]}
}

func parseChoice(input string) (int, bool) {
	switch input {
	case "1", "2", "3":
		return int(input[0] - '0'), true
	}
	return 0, false
}

func numbered(items []string) string {
	lines := make([]string, len(items))
	for i, it := range items {
		lines[i] = fmt.Sprintf("%d. %s", i+1, it)
	}
	return strings.Join(lines, "\n")
}
