package service

import "fmt"

const WelcomeMessage = "¡Hola! 👋 Bienvenido al Tech Night de hoy. Soy tu asistente IA y voy a guiarte en esta experiencia.<br/><br/>" +
	"Tus respuestas nos ayudan a mejorar y vos ganás puntos para el ranking. ¡Empecemos! 🚀"

// QuestionPrompt 第 k 题（从 1 开始）的机器人提问文本
func QuestionPrompt(k, total int, text string) string {
	return fmt.Sprintf("Pregunta %d de %d:<br/><strong>%s</strong>", k, total, text)
}
