package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-forklift-catalog/internal/events"
	"go-forklift-catalog/internal/handler"
	"go-forklift-catalog/internal/middleware"
	"go-forklift-catalog/internal/model"
	"go-forklift-catalog/internal/repository"
	"go-forklift-catalog/internal/resolver"
	"go-forklift-catalog/internal/service"
	"go-forklift-catalog/internal/ws"
	"go-forklift-catalog/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (use a dedicated migration tool in production)
	db.AutoMigrate(
		&model.Product{}, &model.ProductImage{},
		&model.Quote{}, &model.QuoteCounter{},
		&model.Testimonial{}, &model.FAQ{}, &model.ContactMessage{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	)

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db)

	// 4. Setup event bus and WebSocket Hub
	bus := events.NewBus()
	wsHub := ws.NewHub()
	go wsHub.Run()
	wsHub.RelayBus(bus)

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	quoteRepo := repository.NewQuoteRepo(db)
	testimonialRepo := repository.NewTestimonialRepo(db)
	faqRepo := repository.NewFAQRepo(db)
	contactRepo := repository.NewContactRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	statsRepo := repository.NewStatsRepo(db)

	catalogService := service.NewCatalogService(productRepo, wsHub, bus)
	quoteService := service.NewQuoteService(quoteRepo, productRepo)
	dashService := service.NewDashboardService(statsRepo)
	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)
	productResolver := resolver.New(productRepo, bus)

	publicHandler := handler.NewPublicHandler(catalogService, productResolver, testimonialRepo, faqRepo, contactRepo)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	quoteHandler := handler.NewQuoteHandler(quoteService)
	contentHandler := handler.NewContentHandler(testimonialRepo, faqRepo, contactRepo, bus)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)

	// 6. Periodic cache re-sync. Catches drift from writes that bypass the
	// API (manual SQL, restores) between TTL expiries.
	scheduler := cron.New()
	scheduler.AddFunc("@every 5m", func() {
		bus.Publish(events.TopicRefreshAll)
	})
	scheduler.Start()

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Forklift Catalog v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	// Storefront (no authentication)
	api.Get("/products", publicHandler.GetProducts)
	api.Get("/products/:identifier", publicHandler.GetProduct)
	api.Get("/testimonials", publicHandler.GetTestimonials)
	api.Get("/faqs", publicHandler.GetFAQs)
	api.Post("/contact", publicHandler.CreateContact)

	// Auth Routes (No authentication required)
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	// All routes below require authentication
	admin := api.Group("/admin", middleware.RequireAuth(userRepo))

	// Dashboard Routes (authenticated users can view)
	admin.Get("/dashboard/stats", dashHandler.GetDashboardStats)
	admin.Get("/dashboard/quote-volume", dashHandler.GetQuoteVolume)

	// Product Routes (with privilege checks)
	admin.Get("/products", middleware.RequirePrivilege("product:view"), catalogHandler.GetProducts)
	admin.Post("/products", middleware.RequirePrivilege("product:create"), catalogHandler.CreateProduct)
	admin.Post("/products/backfill-slugs", middleware.RequirePrivilege("product:update"), catalogHandler.BackfillSlugs)
	admin.Put("/products/:id", middleware.RequirePrivilege("product:update"), catalogHandler.UpdateProduct)
	admin.Post("/products/:id/copy", middleware.RequirePrivilege("product:create"), catalogHandler.CopyProduct)
	admin.Delete("/products/:id", middleware.RequirePrivilege("product:delete"), catalogHandler.DeleteProduct)

	// Quote Routes (with privilege checks)
	admin.Get("/quotes", middleware.RequirePrivilege("quote:view"), quoteHandler.GetQuotes)
	admin.Get("/quotes/export", middleware.RequirePrivilege("quote:export"), quoteHandler.ExportQuotes)
	admin.Get("/quotes/:id", middleware.RequirePrivilege("quote:view"), quoteHandler.GetQuote)
	admin.Post("/quotes", middleware.RequirePrivilege("quote:create"), quoteHandler.CreateQuote)
	admin.Get("/inventory/export", middleware.RequirePrivilege("quote:export"), quoteHandler.ExportInventory)

	// Storefront Content Routes
	content := admin.Group("", middleware.RequirePrivilege("content:manage"))
	content.Get("/testimonials", contentHandler.GetTestimonials)
	content.Post("/testimonials", contentHandler.CreateTestimonial)
	content.Put("/testimonials/:id", contentHandler.UpdateTestimonial)
	content.Delete("/testimonials/:id", contentHandler.DeleteTestimonial)
	content.Get("/faqs", contentHandler.GetFAQs)
	content.Post("/faqs", contentHandler.CreateFAQ)
	content.Put("/faqs/:id", contentHandler.UpdateFAQ)
	content.Delete("/faqs/:id", contentHandler.DeleteFAQ)
	content.Get("/contacts", contentHandler.GetContacts)
	content.Put("/contacts/:id/handled", contentHandler.MarkContactHandled)

	// User Management Routes (with privilege checks)
	admin.Get("/users", userHandler.GetUsers)
	admin.Get("/users/:id", userHandler.GetUser)
	admin.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	admin.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	admin.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	admin.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Role Routes
	admin.Get("/roles", roleHandler.GetRoles)

	// Privileges Route (list all available privileges)
	admin.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	scheduler.Stop()
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// MASTER_ADMIN gets ALL privileges
	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err == nil && len(masterRole.Privileges) == 0 {
		db.Model(&masterRole).Association("Privileges").Replace(allPrivileges)
		log.Println("✅ MASTER_ADMIN role assigned all privileges")
	}

	// EDITOR manages the catalog and storefront content but not users
	editorRole, err := roleRepo.FindByCode(model.RoleEditor)
	if err == nil && len(editorRole.Privileges) == 0 {
		editorPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if p.Code == "user:create" || p.Code == "user:update" || p.Code == "user:delete" || p.Code == "user:update_privilege" {
				continue
			}
			editorPrivileges = append(editorPrivileges, p)
		}
		db.Model(&editorRole).Association("Privileges").Replace(editorPrivileges)
		log.Println("✅ EDITOR role assigned limited privileges")
	}

	// 4. Create default admin user with MASTER_ADMIN role
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		// Create admin user
		masterRole, _ := roleRepo.FindByCode(model.RoleMasterAdmin)

		admin := &model.User{
			Email:       "admin@example.com",
			FullName:    "Master Administrator",
			PhoneNumber: "",
			RoleID:      &masterRole.ID,
			IsActive:    true,
			Privileges:  masterRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("✅ Admin user created: admin@example.com / admin123 (MASTER_ADMIN)")
		}
	}
}
