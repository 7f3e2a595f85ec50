package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	mw "spendtrack/internal/api/middlewares"
	"spendtrack/internal/api/routers"
	"spendtrack/internal/repositories/sqlconnect"
	"spendtrack/pkg/cron"
	"spendtrack/pkg/utils"

	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, reading config from environment")
	}

	utils.InitLogger()

	err = sqlconnect.ConnectDb()
	if err != nil {
		utils.Logger.Fatal("DB connection failed: ", err)
	}

	err = sqlconnect.RunMigrations()
	if err != nil {
		utils.Logger.Fatal("DB migration failed: ", err)
	}

	cron.StartCronJob(sqlconnect.DB)

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = ":8080"
	}

	router := routers.MainRouter()
	authMiddleware := mw.MiddlewaresExcludePaths(mw.Authenticate, "/users/", "/login/")

	secureMux := authMiddleware(mw.SecurityHeaders(router))

	server := &http.Server{
		Addr:    port,
		Handler: secureMux,
	}

	fmt.Println("Server is running on port", port)
	err = server.ListenAndServe()
	if err != nil {
		log.Fatalln("Error starting the server", err)
	}

}
