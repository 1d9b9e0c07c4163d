package llm

import (
	"fmt"

	"github.com/studynote/studynote/internal/quiz"
)

func systemPrompt(st quiz.Settings) string {
	var format string
	switch st.QuestionType {
	case quiz.TypeMultipleChoice:
		format = `Each question has exactly four answer choices. Output shape per question:
{"prompt": "...", "choices": ["...","...","...","..."], "correct_choice": <0-based index>, "explanation": "...", "tags": ["..."]}`
	case quiz.TypeTrueFalse:
		format = `Each question is a statement judged true or false. Output shape per question:
{"prompt": "...", "options": ["True","False"], "correct_option": "True" or "False", "explanation": "...", "tags": ["..."]}`
	case quiz.TypeEssay:
		format = `Each question asks for a short written answer. Output shape per question:
{"prompt": "...", "model_answer": "...", "explanation": "...", "tags": ["..."]}`
	}
	return fmt.Sprintf(`You are an experienced educator. From the learner's study notes, write quiz questions that check how well the material stuck.

Rules:
- Write exactly %d questions at %q difficulty.
- Every question gets an explanation of why the answer is right and one or two topic tags.
- Respond with a single JSON object: {"questions": [...]}. No other text.

%s`, st.QuestionCount, st.Difficulty, format)
}

func userPrompt(noteContent string) string {
	return "Study notes:\n---\n" + noteContent + "\n---"
}
