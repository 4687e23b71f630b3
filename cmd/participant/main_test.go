package main

import (
	"strings"
	"testing"

	"EventHub/internal/eventhub"
	"EventHub/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestChatPrinterAfterResync(t *testing.T) {
	var buf strings.Builder
	p := newChatPrinter(&buf)

	log := eventhub.NewChatLog()
	log.Replace([]*model.Message{
		{ID: 1, Text: "Hola<br/>", MessageType: model.MessageBot},
		{ID: 2, Text: "Pregunta 1 de 2:<br/><strong>Q1</strong>", MessageType: model.MessageBot},
	})
	p.Print(log.Entries())
	assert.Equal(t, "🤖: Hola\n\n🤖: Pregunta 1 de 2:\nQ1\n", buf.String())

	pid := uint64(7)
	local := log.AppendPending(model.Message{ParticipantID: &pid, Text: "Yes", MessageType: model.MessageUser})
	log.MarkFailed(local)
	buf.Reset()
	p.Print(log.Entries())
	assert.Equal(t, "👤: Yes (未送达)\n", buf.String())

	// 服务端记录替换本地记录后，新出现的消息即使位于原偏移之前也要输出
	log.Replace([]*model.Message{
		{ID: 1, Text: "Hola", MessageType: model.MessageBot},
		{ID: 3, Text: "Aviso", MessageType: model.MessageBot},
		{ID: 2, Text: "Pregunta 1 de 2", MessageType: model.MessageBot},
	})
	buf.Reset()
	p.Print(log.Entries())
	assert.Equal(t, "🤖: Aviso\n", buf.String())

	p.Reset()
	buf.Reset()
	p.Print(log.Entries())
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))
}
