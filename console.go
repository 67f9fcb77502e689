package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"weather-dashboard/dashboard"
)

const consoleHelp = `Commands:
  search <city>   show the weather for a city
  locate          use the device location
  toggle          switch between °C and °F
  dismiss         clear the error message
  refresh         re-fetch the displayed location
  quit            exit`

// parseCommand maps one console line onto a dashboard intent
func parseCommand(line string) (dashboard.Intent, error) {
	line = strings.TrimSpace(line)
	name, arg, _ := strings.Cut(line, " ")

	switch strings.ToLower(name) {
	case "search", "s":
		return dashboard.QueryRefresh(arg), nil
	case "locate", "l":
		return dashboard.DeviceRefresh(), nil
	case "toggle", "t":
		return dashboard.Intent{Kind: dashboard.ToggleUnit}, nil
	case "dismiss", "d":
		return dashboard.Intent{Kind: dashboard.DismissError}, nil
	case "refresh", "r":
		return dashboard.Intent{Kind: dashboard.RefreshCurrent}, nil
	}
	return dashboard.Intent{}, fmt.Errorf("unknown command %q", name)
}

// runConsole reads commands until EOF, "quit" or ctx is done
func runConsole(ctx context.Context, in io.Reader, d *dashboard.Controller, quit func()) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit", "q":
			quit()
			return
		case "help", "?":
			fmt.Println(consoleHelp)
			continue
		}

		intent, err := parseCommand(line)
		if err != nil {
			fmt.Printf("%v\n%s\n", err, consoleHelp)
			continue
		}
		// Failures are already shown by the renderer
		_ = d.Handle(ctx, intent)
	}
}
