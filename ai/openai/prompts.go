package openai

const enhancePrompt = `Enhance the book search query to improve recommendation results. ` +
	`Add relevant themes, genres, and literary elements. ` +
	`Return only the enhanced query text, with no preamble or explanation.`

const explainPrompt = `Generate a natural explanation for why this book matches the user's query. ` +
	`Focus on specific elements that align with their interests. ` +
	`Keep it to two or three sentences.`
