package main

type flagType int
type flagMap map[flagType]string

const (
	listenAddress flagType = iota
	servicePort
	allowedOrigins

	deviceAPIKey
	jwtSecret
	debounceMinutes

	openAIKey
	openAIModel
	openAIBaseURL

	rabbitMQURL
	rabbitMQExchange

	logFile
	configurationFile
	envFile
)
