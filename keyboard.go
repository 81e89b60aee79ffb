package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/commandclash/input"
)

// keyboard feeds ebiten key presses into a recognizer. Call poll once per
// tick from Update.
type keyboard struct {
	rec  *input.Recognizer
	keys []ebiten.Key
	now  func() time.Time
}

func newKeyboard(rec *input.Recognizer) *keyboard {
	return &keyboard{rec: rec, now: time.Now}
}

// poll forwards keys pressed since the last tick and returns their names.
func (k *keyboard) poll() []string {
	k.keys = inpututil.AppendJustPressedKeys(k.keys[:0])
	if len(k.keys) == 0 {
		return nil
	}
	at := k.now()
	names := make([]string, 0, len(k.keys))
	for _, key := range k.keys {
		name := key.String()
		names = append(names, name)
		if k.rec != nil {
			k.rec.Press(name, at)
		}
	}
	return names
}

func justPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}
