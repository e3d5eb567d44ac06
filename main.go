package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"pp-go/begging"
	"pp-go/cogs"
	"pp-go/utils"
)

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg, err := utils.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if cfg.BotToken == "" {
		log.Fatal("BOT_TOKEN is not set")
	}

	items, err := utils.LoadItemRegistry(cfg.ItemsDir)
	if err != nil {
		log.WithError(err).Fatal("Failed to load item registry")
	}
	locations, err := begging.LoadLocations(cfg.LocationsDir)
	if err != nil {
		log.WithError(err).Fatal("Failed to load begging locations")
	}
	donators, err := begging.LoadDonators(cfg.DonatorsFile)
	if err != nil {
		log.WithError(err).Fatal("Failed to load donators")
	}

	store, err := utils.SetupDatabase(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("Failed to set up database")
	}
	defer store.Close()

	cache := utils.NewUserCache(store, cfg.CacheIdleTTL)

	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		log.WithError(err).Fatal("Failed to create Discord session")
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	bot := cogs.New(cfg, cache, items, locations, donators, nil)

	session.AddHandler(func(s *discordgo.Session, event *discordgo.Ready) {
		onReady(s, event, bot)
	})
	session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		switch i.Type {
		case discordgo.InteractionApplicationCommand:
			bot.HandleCommand(s, i)
		case discordgo.InteractionMessageComponent:
			bot.HandleComponent(s, i)
		}
	})

	if err := session.Open(); err != nil {
		log.WithError(err).Fatal("Failed to open Discord connection")
	}
	defer session.Close()

	// Write-back flush runs on a fixed schedule for the life of the process
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every "+cfg.FlushInterval.String(), func() {
		cache.Flush(context.Background())
	}); err != nil {
		log.WithError(err).Fatal("Failed to schedule cache flush")
	}
	scheduler.Start()

	go startHealthServer(cfg.HealthPort)

	log.Info("Bot is now running. Press CTRL+C to exit.")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info("Gracefully shutting down...")
	<-scheduler.Stop().Done()
	// Final flush so nothing staged in memory is lost
	cache.Flush(context.Background())
}

func onReady(s *discordgo.Session, event *discordgo.Ready, bot *cogs.Bot) {
	log.WithFields(log.Fields{
		"username": event.User.Username,
		"user_id":  event.User.ID,
	}).Info("Discord bot logged in")

	// The bot's own id is only known once the gateway is up
	bot.SetTopGG(utils.NewTopGGClient(event.User.ID, bot.Config.TopGGToken))

	if err := s.UpdateStatusComplex(discordgo.UpdateStatusData{
		Activities: []*discordgo.Activity{
			{
				Name: "with pps",
				Type: discordgo.ActivityTypeGame,
			},
		},
		Status: "online",
	}); err != nil {
		log.WithError(err).Warn("Failed to update status")
	}

	for _, command := range bot.Commands() {
		if _, err := s.ApplicationCommandCreate(s.State.User.ID, "", command); err != nil {
			log.WithError(err).WithField("command", command.Name).Error("Failed to register slash command")
		}
	}
	log.WithField("commands", len(bot.Commands())).Info("Registered slash commands")
}

func startHealthServer(port string) {
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"status":"healthy","service":"pp-bot"}`)
	})

	log.WithField("port", port).Info("Health server starting")
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.WithError(err).Error("Health server error")
	}
}
