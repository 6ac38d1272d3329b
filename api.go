package ddnsreg

import (
	"net/http"
	"strconv"

	ethaccounts "github.com/ethereum/go-ethereum/accounts"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/openddns/ddnsreg/common"
	"github.com/openddns/ddnsreg/schema"
)

const (
	defaultRateLimit  = 600
	defaultRatePeriod = "M"
)

func (r *Registrar) runAPI(port string) {
	e := r.engine
	e.Use(common.CORSMiddleware())

	param := r.config.Param()
	limit, period := param.RateLimit, param.RatePeriod
	if limit <= 0 {
		limit = defaultRateLimit
	}
	if len(period) == 0 {
		period = defaultRatePeriod
	}
	e.Use(common.LimiterMiddleware(limit, period, r.config.IpWhitelist()))

	v1 := e.Group("/")
	{
		// call submission, async and sync
		v1.POST("/call", r.submitCall)
		v1.POST("/call/sync", r.submitCallSync)
		v1.GET("/submission/:id", r.getSubmission)

		// registry reads
		v1.GET("/domain/:name/:tld", r.getDomain)
		v1.GET("/domain/key/:name/:tld", r.getDomainKey)
		v1.GET("/price/:name", r.getDomainPrice)
		v1.GET("/receipts/:account", r.getReceipts)
		v1.GET("/receipt/:account/:index", r.getReceipt)

		// treasury reads
		v1.GET("/treasury", r.getTreasury)
		v1.GET("/holding/:account", r.getHolding)

		// audit reads
		v1.GET("/events/:type", r.getEvents)

		v1.GET("/info", r.getInfo)
	}

	if err := e.Run(port); err != nil {
		panic(err)
	}
}

func (r *Registrar) submitCall(c *gin.Context) {
	call := schema.Call{}
	if err := c.ShouldBindJSON(&call); err != nil {
		errorResponse(c, err.Error())
		return
	}
	caller, err := recoverCaller(&call)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}

	id, _, err := r.SubmitCall(caller, call)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, schema.RespSubmission{
		SubmissionId: id,
		Caller:       caller.Hex(),
		Status:       schema.SubmissionAccepted,
	})
}

func (r *Registrar) submitCallSync(c *gin.Context) {
	call := schema.Call{}
	if err := c.ShouldBindJSON(&call); err != nil {
		errorResponse(c, err.Error())
		return
	}
	caller, err := recoverCaller(&call)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}

	id, done, err := r.SubmitCall(caller, call)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}

	res := <-done
	resp := schema.RespCallResult{
		SubmissionId: id,
		Caller:       caller.Hex(),
		LedgerTime:   res.LedgerTime,
	}
	if res.Err != nil {
		resp.Status = schema.SubmissionFailed
		resp.ErrMsg = res.Err.Error()
		c.JSON(http.StatusBadRequest, resp)
		return
	}
	resp.Status = schema.SubmissionConfirmed
	resp.Events = res.Events
	c.JSON(http.StatusOK, resp)
}

func (r *Registrar) getSubmission(c *gin.Context) {
	sub, err := r.wdb.GetSubmission(c.Param("id"))
	if err != nil {
		notFoundResponse(c, schema.ErrNotExist.Error())
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (r *Registrar) getDomain(c *gin.Context) {
	rec, err := r.GetDomain(c.Param("name"), c.Param("tld"))
	if err != nil {
		notFoundResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (r *Registrar) getDomainKey(c *gin.Context) {
	name, tld := c.Param("name"), c.Param("tld")
	c.JSON(http.StatusOK, schema.RespDomainKey{
		DomainName:     name,
		TopLevelDomain: tld,
		Key:            schema.DomainKey(name, tld),
	})
}

func (r *Registrar) getDomainPrice(c *gin.Context) {
	name := c.Param("name")
	price, err := r.GetDomainPrice(name)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, schema.RespPrice{
		DomainName: name,
		Price:      price.String(),
	})
}

func (r *Registrar) getReceipts(c *gin.Context) {
	account := c.Param("account")
	if !ethcommon.IsHexAddress(account) {
		errorResponse(c, schema.ErrInvalidInput.Error())
		return
	}
	rs, err := r.GetReceipts(ethcommon.HexToAddress(account))
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, rs)
}

func (r *Registrar) getReceipt(c *gin.Context) {
	account := c.Param("account")
	if !ethcommon.IsHexAddress(account) {
		errorResponse(c, schema.ErrInvalidInput.Error())
		return
	}
	index, err := strconv.ParseUint(c.Param("index"), 10, 64)
	if err != nil {
		errorResponse(c, err.Error())
		return
	}

	rc, err := r.GetReceiptAt(ethcommon.HexToAddress(account), index)
	if err == schema.ErrExhausted {
		// pagination stop signal, not a server fault
		notFoundResponse(c, err.Error())
		return
	}
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, rc)
}

func (r *Registrar) getTreasury(c *gin.Context) {
	t, err := r.GetTreasury()
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, t)
}

func (r *Registrar) getHolding(c *gin.Context) {
	account := c.Param("account")
	if !ethcommon.IsHexAddress(account) {
		errorResponse(c, schema.ErrInvalidInput.Error())
		return
	}
	bal, err := r.GetHolding(ethcommon.HexToAddress(account))
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"account": account, "holding": bal.String()})
}

func (r *Registrar) getEvents(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		errorResponse(c, schema.ErrInvalidInput.Error())
		return
	}
	evs, err := r.wdb.GetEventsByType(c.Param("type"), limit)
	if err != nil {
		internalErrorResponse(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, evs)
}

func (r *Registrar) getInfo(c *gin.Context) {
	c.JSON(http.StatusOK, schema.RespInfo{
		Name:    "ddnsreg",
		Version: "v1",
	})
}

// recoverCaller derives the caller identity from the eth personal-sign
// signature over the call's deterministic message.
func recoverCaller(call *schema.Call) (ethcommon.Address, error) {
	sig, err := hexutil.Decode(call.Sig)
	if err != nil || len(sig) != 65 {
		return ethcommon.Address{}, schema.ErrInvalidSignature
	}
	cp := make([]byte, 65)
	copy(cp, sig)
	if cp[64] >= 27 {
		cp[64] -= 27
	}

	hash := ethaccounts.TextHash(call.SignData())
	pub, err := crypto.SigToPub(hash, cp)
	if err != nil {
		return ethcommon.Address{}, schema.ErrInvalidSignature
	}
	addr := crypto.PubkeyToAddress(*pub)
	if addr == (ethcommon.Address{}) {
		return ethcommon.Address{}, schema.ErrInvalidSignature
	}
	return addr, nil
}

func errorResponse(c *gin.Context, err string) {
	// client error
	c.JSON(http.StatusBadRequest, schema.RespErr{
		Err: err,
	})
}

func notFoundResponse(c *gin.Context, err string) {
	c.JSON(http.StatusNotFound, schema.RespErr{
		Err: err,
	})
}

func internalErrorResponse(c *gin.Context, err string) {
	// server error
	c.JSON(http.StatusInternalServerError, schema.RespErr{
		Err: err,
	})
}
