package main

import "github.com/killallgit/voice-detector-api/cmd"

// @title           Voice Detector API
// @version         1.0.0
// @description     Detects AI-generated speech in base64-encoded MP3 samples across five languages
// @contact.name    API Support
// @contact.url     https://github.com/killallgit/voice-detector-api
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
// @schemes         http https
// @securityDefinitions.apikey  ApiKeyAuth
// @in                          header
// @name                        x-api-key
// @description                 Static API key required for detection endpoints
func main() {
	cmd.Execute()
}
