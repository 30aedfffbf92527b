package mailer

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"path/filepath"

	"github.com/resto-planning/shift-planner/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

var ErrUnsupportedType = errors.New("type de mail non supporté")

var subjects = map[string]string{
	domain.MailShiftAssigned:  "Planning - Nouveau créneau",
	domain.MailShiftUpdated:   "Planning - Créneau modifié",
	domain.MailShiftCancelled: "Planning - Créneau annulé",
}

// Composer transforme les messages de la file en mails HTML.
// Chaque type de message a son modèle <type>.html dans le dossier des modèles.
type Composer struct {
	from      string
	templates map[string]*template.Template
}

func NewComposer(from, templateDir string) (*Composer, error) {
	c := &Composer{
		from:      from,
		templates: make(map[string]*template.Template, len(subjects)),
	}
	for kind := range subjects {
		tmpl, err := template.ParseFiles(filepath.Join(templateDir, kind+".html"))
		if err != nil {
			return nil, fmt.Errorf("modèle %s: %w", kind, err)
		}
		c.templates[kind] = tmpl
	}
	return c, nil
}

type shiftMessage struct {
	Type string               `json:"type"`
	To   string               `json:"to"`
	Data domain.ShiftMailData `json:"data"`
}

// Compose renvoie une erreur pour tout message qui ne pourra jamais être envoyé :
// il ne sert à rien de le remettre dans la file.
func (c *Composer) Compose(body []byte) (*mail.Msg, error) {
	var m shiftMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, err
	}

	tmpl, ok := c.templates[m.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, m.Type)
	}

	msg := mail.NewMsg()
	if err := msg.From(c.from); err != nil {
		return nil, err
	}
	if err := msg.To(m.To); err != nil {
		return nil, err
	}
	msg.Subject(subjects[m.Type])
	if err := msg.SetBodyHTMLTemplate(tmpl, m.Data); err != nil {
		return nil, err
	}
	return msg, nil
}
