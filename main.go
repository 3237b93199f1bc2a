package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cqbsim",
		Short: "CQB 로봇 정찰 시뮬레이터",
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// .env 파일 로드
			if err := godotenv.Load(); err != nil {
				log.Println("⚠️  .env 파일을 찾을 수 없습니다.")
			}
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(runCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
