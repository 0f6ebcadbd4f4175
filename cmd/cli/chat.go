package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"ticket-ledger/internal/chatbot"
	"ticket-ledger/internal/metrics"
)

func cmdChat(args []string) {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	phone := fs.String("phone", chatbot.DemoParticipant.Phone, "Phone number the messages come from")
	seed := fs.Int64("seed", time.Now().UnixNano(), "Seed for the verification options")
	strict := fs.Bool("strict", false, "Reject wrong verification answers")
	_ = fs.Parse(args)

	bot := chatbot.New(chatbot.DemoDirectory(), rand.New(rand.NewSource(*seed)))
	bot.Strict = *strict

	rec := metrics.NewRecorder()
	defer logTimings(rec)

	session := chatbot.Session{Phone: *phone, State: chatbot.Greeting{}}
	fmt.Println("Type a message (\"quit\" to leave).")

	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !in.Scan() {
			break
		}
		msg := in.Text()
		if strings.EqualFold(strings.TrimSpace(msg), "quit") {
			break
		}

		var reply string
		_ = metrics.Measure(rec, "cli", "chatbot", session.StepName(), func() error {
			reply, session = bot.Step(session, msg)
			return nil
		})
		fmt.Println(reply)
		fmt.Println()
	}
	if err := in.Err(); err != nil {
		fatal("reading stdin", err)
	}
}
