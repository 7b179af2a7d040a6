// Package session drives the interactive report menu.
//
// The menu is an explicit state value advanced by Transition, which never
// touches I/O. Controller reads answers, feeds them through Transition and
// carries out the returned Action.
package session

import (
	"strconv"
	"strings"
	"time"

	"github.com/milad/energyreport/internal/domain"
)

const dateLayout = "02.01.2006"

type State int

const (
	MainMenu State = iota
	DailyStartPrompt
	DailyEndPrompt
	MonthlyPrompt
	ReportDisplay
	OutputMenu
	Exit
)

func (s State) String() string {
	switch s {
	case MainMenu:
		return "main_menu"
	case DailyStartPrompt:
		return "daily_start_prompt"
	case DailyEndPrompt:
		return "daily_end_prompt"
	case MonthlyPrompt:
		return "monthly_prompt"
	case ReportDisplay:
		return "report_display"
	case OutputMenu:
		return "output_menu"
	case Exit:
		return "exit"
	default:
		return "unknown"
	}
}

// Session is the whole menu state. The zero value is a fresh MainMenu.
type Session struct {
	State State
	// Start is the accepted start date while the end date is prompted for.
	Start time.Time
	// Report is the report being displayed or waiting for an output choice.
	Report domain.Report
}

type ActionKind int

const (
	// ActPrompt asks for the current state's input.
	ActPrompt ActionKind = iota
	ActInvalidSelection
	ActInvalidOutputSelection
	ActInvalidDate
	ActEndBeforeStart
	ActInvalidMonth
	ActBuildDaily
	ActBuildMonthly
	ActBuildYearly
	ActDisplay
	ActWriteOverwrite
	ActWriteNew
	ActDiscard
	ActExit
)

// Action is the side effect the controller performs after a transition.
type Action struct {
	Kind  ActionKind
	Start time.Time
	End   time.Time
	Month int
}

// Transition consumes one line of user input. Input is ignored in
// ReportDisplay and Exit.
func Transition(s Session, input string) (Session, Action) {
	in := strings.TrimSpace(input)

	switch s.State {
	case MainMenu:
		switch in {
		case "1":
			return Session{State: DailyStartPrompt}, Action{Kind: ActPrompt}
		case "2":
			return Session{State: MonthlyPrompt}, Action{Kind: ActPrompt}
		case "3":
			return Session{State: MainMenu}, Action{Kind: ActBuildYearly}
		case "4":
			return Session{State: Exit}, Action{Kind: ActExit}
		default:
			return s, Action{Kind: ActInvalidSelection}
		}

	case DailyStartPrompt:
		d, err := time.Parse(dateLayout, in)
		if err != nil {
			return s, Action{Kind: ActInvalidDate}
		}
		return Session{State: DailyEndPrompt, Start: d}, Action{Kind: ActPrompt}

	case DailyEndPrompt:
		d, err := time.Parse(dateLayout, in)
		if err != nil {
			return s, Action{Kind: ActInvalidDate}
		}
		if d.Before(s.Start) {
			return s, Action{Kind: ActEndBeforeStart}
		}
		return Session{State: MainMenu}, Action{Kind: ActBuildDaily, Start: s.Start, End: d}

	case MonthlyPrompt:
		m, err := strconv.Atoi(in)
		if err != nil || m < 1 || m > 12 {
			return s, Action{Kind: ActInvalidMonth}
		}
		return Session{State: MainMenu}, Action{Kind: ActBuildMonthly, Month: m}

	case ReportDisplay:
		return Session{State: OutputMenu, Report: s.Report}, Action{Kind: ActDisplay}

	case OutputMenu:
		switch in {
		case "1":
			return s, Action{Kind: ActWriteOverwrite}
		case "2":
			return s, Action{Kind: ActWriteNew}
		case "3":
			return Session{State: MainMenu}, Action{Kind: ActDiscard}
		default:
			return s, Action{Kind: ActInvalidOutputSelection}
		}
	}

	return s, Action{Kind: ActExit}
}

// Built moves a session to ReportDisplay holding rep.
func Built(rep domain.Report) Session {
	return Session{State: ReportDisplay, Report: rep}
}

// Written finishes an output choice once the report is on disk.
func Written(Session) Session {
	return Session{State: MainMenu}
}
