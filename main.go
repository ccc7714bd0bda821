package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/cetak3d/go-printshop/app/cmd"
	"github.com/cetak3d/go-printshop/app/configs"
	"github.com/cetak3d/go-printshop/app/repositories"
	"github.com/cetak3d/go-printshop/app/routes"
	"github.com/cetak3d/go-printshop/app/services"
	"github.com/cetak3d/go-printshop/app/utils/sessions"
)

func init() {
	configs.InitMidtransClient()
}

func main() {

	env := configs.LoadEnv()
	if len(os.Args) > 1 {
		cmd.RunCli()
		return
	}

	if env.SUPERSLICE_API_URL == "" {
		log.Fatalf("SUPERSLICE_API_URL is empty! Please check your .env file.")
	}
	if env.API_ONGKIR_KEY == "" {
		log.Fatalf("API_ONGKIR_KEY is empty! Please check your .env file.")
	}

	db, err := configs.OpenConnection()
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	log.Println("✅ Database connected.")

	keys, err := configs.LoadSessionKeysFromEnv()
	if err != nil {
		log.Fatalf("Session keys failed to load: %v. Run `go-printshop generate-keys` first.", err)
	}
	sessionStore := sessions.NewCookieSessionStore(keys.AuthKey, keys.EncKey)
	log.Println("✅ Session store initialized.")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fileWorker := services.NewOrderFileService(
		db,
		repositories.NewOrderRepository(db),
		repositories.NewOrderItemRepository(db),
		repositories.NewTempFileRepository(db),
		repositories.NewUserFileRepository(db),
		repositories.NewOrderFileJobRepository(db),
	)
	go fileWorker.Run(ctx)
	log.Println("✅ Order file worker started.")

	router := routes.NewRouter(db, sessionStore, keys)

	server := http.Server{
		Addr:    env.Port,
		Handler: router,
	}

	log.Printf("🚀 Server starting on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil {
		log.Println("failed to connecting to the server")
	}

}
