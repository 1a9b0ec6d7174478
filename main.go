package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	mongoutil "github.com/SHANKAR-YADAVA/ChatApp/data/database/mgo/mongoutil"
	config "github.com/SHANKAR-YADAVA/ChatApp/global/config"
	"github.com/SHANKAR-YADAVA/ChatApp/logger"
	mid "github.com/SHANKAR-YADAVA/ChatApp/middleware"
	chatmod "github.com/SHANKAR-YADAVA/ChatApp/module/chat"
	chatsvc "github.com/SHANKAR-YADAVA/ChatApp/module/chat/service"
	usermod "github.com/SHANKAR-YADAVA/ChatApp/module/user"
	usersvc "github.com/SHANKAR-YADAVA/ChatApp/module/user/service"
	"github.com/SHANKAR-YADAVA/ChatApp/service/assets"
	"github.com/SHANKAR-YADAVA/ChatApp/service/chat"
	"github.com/SHANKAR-YADAVA/ChatApp/service/chat/handlers"
	mgoSrv "github.com/SHANKAR-YADAVA/ChatApp/service/mgo"
	storageredis "github.com/SHANKAR-YADAVA/ChatApp/service/storage/redis"
	"github.com/SHANKAR-YADAVA/ChatApp/service/translate"
	"github.com/SHANKAR-YADAVA/ChatApp/tools/ids"
	jwtlib "github.com/SHANKAR-YADAVA/ChatApp/tools/security"
)

func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("config: %v", err)
	}
	defer logger.Sync()

	ids.SetNodeID(config.Global.NodeID)

	// Redis is an optional cache; boot proceeds without it
	if err := storageredis.Init(storageredis.Config{
		Addr:     config.Global.Redis.Addr,
		Password: config.Global.Redis.Password,
		DB:       config.Global.Redis.DB,
	}); err != nil {
		logger.Warnf("[main] redis unavailable, translation cache disabled: %v", err)
	}

	// Mongo must be up before serving the API
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mgoSrv.StartAsync(ctx, &mongoutil.Config{
		Uri:         config.Global.Mongo.URI,
		Database:    config.Global.Mongo.Database,
		Username:    config.Global.Mongo.Username,
		Password:    config.Global.Mongo.Password,
		MaxPoolSize: config.Global.Mongo.MaxPoolSize,
	})
	waitCtx, waitCancel := context.WithTimeout(ctx, 30*time.Second)
	defer waitCancel()
	if err := mgoSrv.WaitReady(waitCtx, mgoSrv.Manager()); err != nil {
		log.Fatalf("mongo not ready: %v (last err: %v)", err, mgoSrv.Err())
	}
	db := mgoSrv.GetDB()

	jwtOpts := jwtlib.DefaultOptions(config.GetJwtSecret())

	// realtime core
	chatSrv := chat.NewServer()
	defer chatSrv.Close()
	chatSrv.Disp().Register(handlers.NewJoinRoomHandler())
	chatSrv.Disp().Register(handlers.NewGroupMessageHandler())

	// collaborators
	var uploader chatsvc.ImageUploader
	if up := assets.New(assets.Config{
		CloudName: config.Global.Cloudinary.CloudName,
		APIKey:    config.Global.Cloudinary.APIKey,
		APISecret: config.Global.Cloudinary.APISecret,
	}); up.Enabled() {
		uploader = up
	}
	translator := translate.New(translate.Config{
		APIKey:  config.Global.Groq.APIKey,
		BaseURL: config.Global.Groq.BaseURL,
		Model:   config.Global.Groq.Model,
	})

	// services and HTTP handlers
	userSvc := usersvc.New(db, jwtOpts)
	msgSvc := chatsvc.NewMessageService(chatsvc.NewMongoMessageStore(db), chatSrv, uploader)
	groupSvc := chatsvc.NewGroupService(db)

	userH := usermod.NewHandler(userSvc, config.Global.Env == "production")
	chatH := chatmod.NewHandler(msgSvc, groupSvc, userSvc)

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/ws", chatSrv.HandleWS) // ws://host:port/ws?userId=<id>

	open := mid.RouteOpt{IsAuth: false}
	authed := mid.RouteOpt{IsAuth: true, JWT: jwtOpts}

	api := r.Group("/api")
	mid.POST(api, "/auth/signup", userH.Signup, open)
	mid.POST(api, "/auth/login", userH.Login, open)
	mid.POST(api, "/auth/logout", userH.Logout, open)
	mid.GET(api, "/auth/check", userH.Check, authed)
	mid.PUT(api, "/auth/update-profile", userH.UpdateProfile, authed)

	mid.GET(api, "/messages/users", chatH.SidebarUsers, authed)
	mid.POST(api, "/messages/send/:id", chatH.Send, authed)
	mid.POST(api, "/messages/group/send", chatH.SendGroup, authed)
	mid.GET(api, "/messages/group/:roomId", chatH.GroupHistory, authed)
	mid.DELETE(api, "/messages/delete/:messageId", chatH.Delete, authed)
	mid.GET(api, "/messages/:id", chatH.History, authed)

	mid.POST(api, "/groups", chatH.CreateGroup, authed)
	mid.GET(api, "/groups", chatH.ListGroups, authed)

	mid.POST(api, "/translate", translate.Handler(translator), authed)

	addr := fmt.Sprintf(":%d", config.Global.Port)
	logger.Infof("[main] listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("http server: %v", err)
	}
}
