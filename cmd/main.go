package main

import (
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	exchange "p2p_exchange_back"
	"p2p_exchange_back/pkg/chain"
	"p2p_exchange_back/pkg/handler"
	"p2p_exchange_back/pkg/pricing"
	"p2p_exchange_back/pkg/repository"
	"p2p_exchange_back/pkg/service"
)

func main() {
	logrus.SetFormatter(new(logrus.JSONFormatter))
	logrus.Infoln("Запуск сервера")
	if err := godotenv.Load(); err != nil {
		logrus.Infof("Ошибка инициализации переменных окружения .env: %s \n", err)
	}

	if err := InitConfig(); err != nil {
		logrus.Fatalf("Ошибка (viper) при инициализации конфига .yaml: %s \n", err.Error())
	}
	logrus.Infoln("Конфиг YAML инициализирован")

	db, err := repository.NewPostgresDB(repository.Config{
		Host:     viper.GetString("db.host"),
		Port:     viper.GetString("db.port"),
		Username: viper.GetString("db.username"),
		Password: os.Getenv("DB_PASS_LOCAL"),
		DBName:   viper.GetString("db.dbname"),
		SSLMode:  viper.GetString("db.sslmode"),
	})
	if err != nil {
		logrus.Fatalf("Ошибка при инициализации базы данных: %s \n", err.Error())
	}
	logrus.Info("База данных подключена")

	registry := chain.NewRegistry(
		chain.NewBlockchainComClient(viper.GetString("providers.blockchaincom_url")),
		chain.NewMoralisClient(viper.GetString("providers.moralis_url"), os.Getenv("MORALIS_API_KEY")),
	)
	prices := pricing.NewCoinGeckoClient(viper.GetString("providers.coingecko_url"), os.Getenv("COINGECKO_API_KEY"))

	repos := repository.NewRepository(db)
	service := service.NewService(repos, registry, prices)
	handler := handler.NewHandler(service)

	srv := new(exchange.Server)
	if err := srv.Run(os.Getenv("PORT"), handler.InitRoute()); err != nil {
		logrus.Fatalf("Ошибка при запуске сервера: %s \n", err)
	}
}

func InitConfig() error {
	viper.AddConfigPath("configs")
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}
