// Command llmchat is a terminal chat front-end for OpenAI compatible models.
package main

import "github.com/diogo/llmchat/internal/commands"

func main() {
	commands.Execute()
}
