package middleware

import (
	"github.com/gin-gonic/gin"

	midsec "github.com/SHANKAR-YADAVA/ChatApp/middleware/security"
	jwtlib "github.com/SHANKAR-YADAVA/ChatApp/tools/security"
)

// RouteOpt toggles the auth middleware per route.
type RouteOpt struct {
	IsAuth bool
	JWT    jwtlib.Options
}

func POST(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		r.POST(path, midsec.Middleware(opt.JWT), handler)
	} else {
		r.POST(path, handler)
	}
}

func GET(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		r.GET(path, midsec.Middleware(opt.JWT), handler)
	} else {
		r.GET(path, handler)
	}
}

func DELETE(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		r.DELETE(path, midsec.Middleware(opt.JWT), handler)
	} else {
		r.DELETE(path, handler)
	}
}

func PUT(r gin.IRoutes, path string, handler gin.HandlerFunc, opt RouteOpt) {
	if opt.IsAuth {
		r.PUT(path, midsec.Middleware(opt.JWT), handler)
	} else {
		r.PUT(path, handler)
	}
}
