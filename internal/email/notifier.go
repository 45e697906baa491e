package email

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltpl "html/template"
	"net/url"
	"strings"
	texttpl "text/template"
	"time"
)

//go:embed templates/*
var templatesFS embed.FS

const (
	TemplateWelcome = "welcome"
	TemplateInvite  = "invite"
)

type WelcomeVars struct {
	Name       string
	Email      string
	TenantName string
	TenantSlug string
	Link       string
}

type InviteVars struct {
	Email      string
	TenantName string
	Token      string
	ExpiresAt  time.Time
}

type pair struct {
	html *htmltpl.Template
	text *texttpl.Template
}

// Notifier renderiza los templates de alta y los entrega por un Sender.
type Notifier struct {
	sender  Sender
	baseURL string
	tpl     map[string]pair
}

// NewNotifier parsea los templates embebidos. baseURL se usa para armar los links.
func NewNotifier(sender Sender, baseURL string) (*Notifier, error) {
	n := &Notifier{sender: sender, baseURL: strings.TrimRight(baseURL, "/"), tpl: map[string]pair{}}
	for _, name := range []string{TemplateWelcome, TemplateInvite} {
		h, err := htmltpl.ParseFS(templatesFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("email: parse %s.html: %w", name, err)
		}
		t, err := texttpl.ParseFS(templatesFS, "templates/"+name+".txt")
		if err != nil {
			return nil, fmt.Errorf("email: parse %s.txt: %w", name, err)
		}
		n.tpl[name] = pair{html: h, text: t}
	}
	return n, nil
}

// SendWelcome avisa al admin que su agencia quedó creada.
func (n *Notifier) SendWelcome(ctx context.Context, v WelcomeVars) error {
	if v.Link == "" && n.baseURL != "" {
		v.Link = n.baseURL + "/login?tenant=" + url.QueryEscape(v.TenantSlug)
	}
	return n.send(ctx, TemplateWelcome, v.Email, "Welcome to "+v.TenantName, v)
}

// SendInvite manda el link de alta con el token de invitación.
func (n *Notifier) SendInvite(ctx context.Context, v InviteVars) error {
	data := struct {
		InviteVars
		Link    string
		Expires string
	}{
		InviteVars: v,
		Link:       n.baseURL + "/signup/accept?token=" + url.QueryEscape(v.Token),
		Expires:    v.ExpiresAt.UTC().Format(time.RFC1123),
	}
	return n.send(ctx, TemplateInvite, v.Email, "Set up "+v.TenantName, data)
}

func (n *Notifier) send(ctx context.Context, name, to, subject string, data any) error {
	p := n.tpl[name]
	var hb, tb bytes.Buffer
	if err := p.html.Execute(&hb, data); err != nil {
		return fmt.Errorf("email: render %s: %w", name, err)
	}
	if err := p.text.Execute(&tb, data); err != nil {
		return fmt.Errorf("email: render %s: %w", name, err)
	}
	return n.sender.Send(ctx, to, subject, hb.String(), tb.String())
}
