// Gigachat is a command-line client for the GigaChat chat-completion API.
//
// It sends completion requests (single-shot or streamed), lists the models
// the account can use, and manages the access token transparently.
//
// Usage:
//
//	# Ask a question with credentials from the environment
//	GIGACHAT_AUTH_CREDENTIALS=<key> gigachat chat "What is Go?"
//
//	# Stream the answer token by token
//	gigachat chat --stream "Tell me a story"
//
//	# Use a configuration file
//	gigachat chat --config /etc/gigachat/config.yaml "Hello"
//
//	# List available models
//	gigachat models
//
//	# Show version information
//	gigachat version
package main

func main() {
	Execute()
}
