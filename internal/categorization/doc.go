// Package categorization holds the language-model features. OpenRouter asks
// a chat-completion model to choose among the user's categories and reads
// receipt images into draft transactions; Noop never chooses a category.
// Every OpenRouter call can be recorded through a CallRecorder.
package categorization
