package main

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type loginForm struct {
	inputs [2]textinput.Model
	focus  int
	busy   bool
}

type loginMsg struct {
	username string
	err      error
}

func newLoginForm() loginForm {
	user := newInput("username")
	pass := newInput("password")
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	return loginForm{inputs: [2]textinput.Model{user, pass}}
}

func (m *model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := &m.login
	if f.busy {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		f.inputs[f.focus].Blur()
		f.focus = (f.focus + 1) % len(f.inputs)
		return m, f.inputs[f.focus].Focus()
	case key.Matches(msg, m.keys.Select):
		username := strings.TrimSpace(f.inputs[0].Value())
		password := f.inputs[1].Value()
		if username == "" || password == "" {
			m.err = "Enter a username and password."
			return m, nil
		}
		f.busy = true
		m.err = ""
		m.status = "Signing in..."
		return m, m.loginCmd(username, password)
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return m, cmd
}

func (m *model) loginCmd(username, password string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx := context.Background()
		return loginMsg{username: username, err: client.Login(ctx, username, password)}
	}
}

func (m *model) loginDone(msg loginMsg) (tea.Model, tea.Cmd) {
	m.login.busy = false
	if msg.err != nil {
		m.status = ""
		m.err = "Login failed: " + msg.err.Error()
		m.login.inputs[1].SetValue("")
		return m, nil
	}
	m.login.inputs[1].SetValue("")
	m.status = "Signed in as " + msg.username
	m.err = ""
	m.screen = screenCustomers
	return m, tea.Batch(m.customers.focusOn(focusSearch), m.searchCmd(""))
}

func (m *model) viewLogin() string {
	f := m.login
	var b strings.Builder
	b.WriteString("Sign in\n\n")
	labels := [2]string{"Username", "Password"}
	for i, in := range f.inputs {
		label := mutedStyle.Render(labels[i] + ": ")
		if i == f.focus {
			label = selectedStyle.Render(labels[i] + ": ")
		}
		b.WriteString(label + in.View() + "\n")
	}
	return b.String()
}
