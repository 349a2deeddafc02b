package main

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tuition-portal-api/internal/handler"
	internalmiddleware "github.com/noah-isme/tuition-portal-api/internal/middleware"
	"github.com/noah-isme/tuition-portal-api/internal/models"
)

type routeDeps struct {
	auth     internalmiddleware.Authenticator
	audit    internalmiddleware.AuditWriter
	metrics  *handler.MetricsHandler
	me       *handler.AuthHandler
	portal   *handler.PortalHandler
	booking  *handler.BookingHandler
	blocks   *handler.BlockHandler
	slots    *handler.SlotHandler
	instance *handler.InstanceHandler
	sessions *handler.SessionHandler
	onboard  *handler.StudentProfileHandler
	bespoke  *handler.BespokeHandler
	tutors   *handler.TutorHandler
	profiles *handler.ProfileHandler
	content  *handler.ContentHandler
	exports  *handler.ExportHandler
}

func registerRoutes(api *gin.RouterGroup, d routeDeps) {
	// Public
	api.GET("/catalog/packages", d.slots.Packages)
	api.GET("/catalog/slots", d.slots.Catalog)
	api.GET("/settings", d.content.Settings)
	api.GET("/bespoke/:token", d.bespoke.OfferByToken)
	api.POST("/enquiries", d.bespoke.SubmitEnquiry)
	api.POST("/tutor-applications", d.tutors.SubmitApplication)
	if d.exports != nil {
		api.GET("/exports/:token", d.exports.Download)
	}

	authed := api.Group("")
	authed.Use(internalmiddleware.JWT(d.auth))
	authed.GET("/me", d.me.Me)
	authed.GET("/portal/sessions", d.portal.Sessions)
	authed.GET("/portal/sessions/:id/join", d.portal.Join)
	authed.GET("/portal/calendar.ics", d.portal.Calendar)
	authed.GET("/instances", d.instance.List)
	authed.GET("/session-notes", d.sessions.ListNotes)
	authed.GET("/announcements", d.content.ListAnnouncements)
	onboarding := authed.Group("/student-profile")
	onboarding.Use(internalmiddleware.RequireStudentContext())
	onboarding.GET("", d.onboard.Get)
	onboarding.POST("", internalmiddleware.RequireRoles(models.RoleStudent, models.RoleParent), d.onboard.Create)

	bookings := authed.Group("/bookings")
	studentOnly := internalmiddleware.RequireRoles(models.RoleStudent)
	bookings.POST("/block", studentOnly, d.booking.BookBlock)
	bookings.POST("/bundle", studentOnly, d.booking.BookBundle)
	bookings.POST("/enroll", studentOnly, d.booking.EnrollBlock)
	bookings.POST("/renew", internalmiddleware.RequireRoles(models.RoleStudent, models.RoleParent), internalmiddleware.RequireStudentContext(), d.booking.RenewBlock)

	staff := authed.Group("")
	staff.Use(internalmiddleware.RequireRoles(models.RoleTutor, models.RoleAdmin))
	staff.PATCH("/instances/:id/classroom", internalmiddleware.Audit(d.audit, "CLASSROOM_UPDATE", "group_instance"), d.instance.UpdateClassroom)
	staff.GET("/instances/:id/attendance", d.sessions.Roster)
	staff.PUT("/instances/:id/attendance", internalmiddleware.Audit(d.audit, "ATTENDANCE_SAVE", "group_instance"), d.sessions.SaveAttendance)
	staff.POST("/session-notes", d.sessions.CreateNote)
	if d.exports != nil {
		staff.POST("/instances/:id/exports", d.exports.ExportRegister)
	}

	admin := authed.Group("/admin")
	admin.Use(internalmiddleware.RequireRoles(models.RoleAdmin))
	admin.GET("/metrics", d.metrics.Snapshot)

	admin.GET("/slots", d.slots.List)
	admin.GET("/slots/:id", d.slots.Get)
	admin.POST("/slots", d.slots.Create)
	admin.PUT("/slots/:id", d.slots.Update)
	admin.DELETE("/slots/:id", d.slots.Delete)

	admin.GET("/instances/:id", d.instance.Get)
	admin.POST("/instances", internalmiddleware.Audit(d.audit, "INSTANCE_CREATE", "group_instance"), d.instance.Create)
	admin.PUT("/instances/:id", internalmiddleware.Audit(d.audit, "INSTANCE_UPDATE", "group_instance"), d.instance.Update)
	admin.DELETE("/instances/:id", d.instance.Delete)
	admin.PATCH("/instances/:id/booking", internalmiddleware.Audit(d.audit, "INSTANCE_BOOKING_TOGGLE", "group_instance"), d.instance.SetBooking)

	admin.GET("/blocks/payments", d.blocks.PaymentBlocks)
	admin.POST("/blocks/generate", d.blocks.Generate)
	admin.POST("/blocks/verify", d.blocks.Verify)
	admin.POST("/blocks/classroom", d.blocks.AssignClassroom)
	admin.GET("/blocks/runs", d.blocks.ListRuns)
	admin.GET("/blocks/runs/:id", d.blocks.GetRun)

	admin.GET("/users", d.profiles.List)
	admin.PATCH("/users/:id/role", d.profiles.UpdateRole)

	admin.GET("/tutors", d.profiles.Tutors)
	admin.POST("/tutors", d.tutors.Create)
	admin.GET("/tutors/directory", d.tutors.ListDirectory)
	admin.POST("/tutors/directory", d.tutors.CreateDirectoryEntry)
	admin.PUT("/tutors/directory/:id", d.tutors.UpdateDirectoryEntry)
	admin.DELETE("/tutors/directory/:id", d.tutors.DeleteDirectoryEntry)
	admin.GET("/tutor-applications", d.tutors.ListApplications)
	admin.PATCH("/tutor-applications/:id/status", internalmiddleware.Audit(d.audit, "TUTOR_APPLICATION_STATUS", "tutor_application"), d.tutors.UpdateApplicationStatus)

	admin.GET("/bespoke/offers", d.bespoke.ListOffers)
	admin.POST("/bespoke/offers", internalmiddleware.Audit(d.audit, "BESPOKE_OFFER_CREATE", "bespoke_offer"), d.bespoke.CreateOffer)
	admin.PATCH("/bespoke/offers/:id/status", internalmiddleware.Audit(d.audit, "BESPOKE_OFFER_STATUS", "bespoke_offer"), d.bespoke.UpdateOfferStatus)
	admin.GET("/enquiries", d.bespoke.ListEnquiries)
	admin.PATCH("/enquiries/:id/status", d.bespoke.UpdateEnquiryStatus)

	admin.POST("/announcements", internalmiddleware.Audit(d.audit, "ANNOUNCEMENT_CREATE", "announcement"), d.content.CreateAnnouncement)
	admin.DELETE("/announcements/:id", internalmiddleware.Audit(d.audit, "ANNOUNCEMENT_DELETE", "announcement"), d.content.DeleteAnnouncement)
	admin.PUT("/settings", d.content.UpdateSettings)
}
