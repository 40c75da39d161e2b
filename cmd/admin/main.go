package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"piratepoker-server/internal/app"
	"piratepoker-server/internal/config"
	"piratepoker-server/internal/jwt"
	"piratepoker-server/internal/util"
	"piratepoker-server/pkg/engine"
	"piratepoker-server/pkg/model"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

var command = flag.String("c", "token", "specifies the command (token, grant)")

func main() {
	flag.Parse()

	cfg := config.Instance()
	if err := app.SetupLogger(cfg); err != nil {
		logrus.WithError(err).Fatal("could not set up logger")
	}

	reader := bufio.NewReader(os.Stdin)

	switch *command {
	case "token":
		if err := jwt.LoadKeys(); err != nil {
			logrus.WithError(err).Fatal("could not load keys")
		}

		identity, err := getInput(reader, "Identity (blank for random)")
		if err != nil {
			logrus.WithError(err).Fatal("could not get answer")
		}

		if identity == "" {
			identity = util.RandomIdentity()
		}

		token, err := jwt.Sign(identity)
		if err != nil {
			logrus.WithError(err).Fatal("could not sign token")
		}

		if isTerminal() {
			fmt.Printf("Token for %s:\n", identity)
		}
		fmt.Println(token)

	case "grant":
		identity, err := getInput(reader, "Identity")
		if err != nil || identity == "" {
			logrus.WithError(err).Fatal("an identity is required")
		}

		answer, err := getInput(reader, "Doubloons")
		if err != nil {
			logrus.WithError(err).Fatal("could not get answer")
		}

		amount, err := strconv.Atoi(answer)
		if err != nil {
			logrus.WithError(err).Fatal("doubloons must be a number")
		}

		s, err := app.OpenStore(cfg)
		if err != nil {
			logrus.WithError(err).Fatal("could not open store")
		}
		defer s.Close()

		e := app.NewEngine(logrus.StandardLogger(), s, nil, cfg)
		ctx := engine.WithIdentity(context.Background(), model.Identity(identity))
		player, err := e.AddDoubloons(ctx, amount)
		if err != nil {
			logrus.WithError(err).Fatal("could not grant doubloons")
		}

		fmt.Printf("%s (%s) now has %d doubloons\n", player.Alias, player.Identity, player.Doubloons)

	default:
		logrus.Fatalf("unknown command: %s", *command)
	}
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// getInput reads a line, prompting only when a person is at the keyboard
func getInput(reader *bufio.Reader, question string) (string, error) {
	if isTerminal() {
		fmt.Printf("%s: ", question)
	}

	str, err := reader.ReadString('\n')
	if err != nil && str == "" {
		return "", err
	}

	return strings.TrimRight(str, "\r\n"), nil
}
