package sdk

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/everFinance/goether"
	"github.com/openddns/ddnsreg/schema"
	"github.com/shopspring/decimal"
	"gopkg.in/h2non/gentleman.v2"
)

// Client signs registry calls with an eth key and talks to the registrar API.
type Client struct {
	SCli   *gentleman.Client
	signer *goether.Signer
}

func New(registrarUrl string, prvHex string) (*Client, error) {
	signer, err := goether.NewSigner(prvHex)
	if err != nil {
		return nil, err
	}
	return &Client{
		SCli:   gentleman.New().URL(registrarUrl),
		signer: signer,
	}, nil
}

func (c *Client) Address() ethcommon.Address {
	return c.signer.Address
}

func (c *Client) RegisterDomain(domainName, ipAddress, topLevelDomain string, payment decimal.Decimal) (schema.RespCallResult, error) {
	return c.submitCall(schema.Call{
		Action:         schema.ActionRegister,
		DomainName:     domainName,
		IpAddress:      ipAddress,
		TopLevelDomain: topLevelDomain,
		Payment:        payment.String(),
	})
}

func (c *Client) RenewDomain(domainName, topLevelDomain string, payment decimal.Decimal) (schema.RespCallResult, error) {
	return c.submitCall(schema.Call{
		Action:         schema.ActionRenew,
		DomainName:     domainName,
		TopLevelDomain: topLevelDomain,
		Payment:        payment.String(),
	})
}

func (c *Client) EditDomainIp(domainName, topLevelDomain, newIpAddress string) (schema.RespCallResult, error) {
	return c.submitCall(schema.Call{
		Action:         schema.ActionEditIp,
		DomainName:     domainName,
		TopLevelDomain: topLevelDomain,
		IpAddress:      newIpAddress,
	})
}

func (c *Client) TransferDomain(domainName, topLevelDomain string, newOwner ethcommon.Address) (schema.RespCallResult, error) {
	return c.submitCall(schema.Call{
		Action:         schema.ActionTransfer,
		DomainName:     domainName,
		TopLevelDomain: topLevelDomain,
		NewOwner:       newOwner.Hex(),
	})
}

func (c *Client) ChangeRegistrationCost(newCost decimal.Decimal) (schema.RespCallResult, error) {
	return c.submitCall(schema.Call{
		Action:  schema.ActionChangeCost,
		NewCost: newCost.String(),
	})
}

func (c *Client) ChangeExpiryPeriod(newPeriod int64) (schema.RespCallResult, error) {
	return c.submitCall(schema.Call{
		Action:    schema.ActionChangePeriod,
		NewPeriod: newPeriod,
	})
}

func (c *Client) ChangeWallet(newWallet ethcommon.Address) (schema.RespCallResult, error) {
	return c.submitCall(schema.Call{
		Action:    schema.ActionChangeWallet,
		NewWallet: newWallet.Hex(),
	})
}

func (c *Client) Withdraw(amount decimal.Decimal) (schema.RespCallResult, error) {
	return c.submitCall(schema.Call{
		Action: schema.ActionWithdraw,
		Amount: amount.String(),
	})
}

func (c *Client) TransferControl(newOwner ethcommon.Address) (schema.RespCallResult, error) {
	return c.submitCall(schema.Call{
		Action:   schema.ActionTransferControl,
		NewOwner: newOwner.Hex(),
	})
}

func (c *Client) RenounceControl() (schema.RespCallResult, error) {
	return c.submitCall(schema.Call{
		Action: schema.ActionRenounceControl,
	})
}

func (c *Client) Halt(recipient ethcommon.Address) (schema.RespCallResult, error) {
	return c.submitCall(schema.Call{
		Action:    schema.ActionHalt,
		Recipient: recipient.Hex(),
	})
}

func (c *Client) GetDomain(domainName, topLevelDomain string) (rec schema.DomainRecord, err error) {
	req := c.SCli.Get()
	req.Path(fmt.Sprintf("/domain/%s/%s", domainName, topLevelDomain))
	resp, err := req.Send()
	if err != nil {
		return
	}
	defer resp.Close()
	if !resp.Ok {
		return rec, decodeRespErr(resp.Bytes())
	}
	err = resp.JSON(&rec)
	return
}

func (c *Client) GetDomainPrice(domainName string) (price schema.RespPrice, err error) {
	req := c.SCli.Get()
	req.Path(fmt.Sprintf("/price/%s", domainName))
	resp, err := req.Send()
	if err != nil {
		return
	}
	defer resp.Close()
	if !resp.Ok {
		return price, decodeRespErr(resp.Bytes())
	}
	err = resp.JSON(&price)
	return
}

func (c *Client) GetTreasury() (t schema.Treasury, err error) {
	req := c.SCli.Get()
	req.Path("/treasury")
	resp, err := req.Send()
	if err != nil {
		return
	}
	defer resp.Close()
	if !resp.Ok {
		return t, decodeRespErr(resp.Bytes())
	}
	err = resp.JSON(&t)
	return
}

func (c *Client) GetSubmission(submissionId string) (sub schema.SubmissionRecord, err error) {
	req := c.SCli.Get()
	req.Path(fmt.Sprintf("/submission/%s", submissionId))
	resp, err := req.Send()
	if err != nil {
		return
	}
	defer resp.Close()
	if !resp.Ok {
		return sub, decodeRespErr(resp.Bytes())
	}
	err = resp.JSON(&sub)
	return
}

// GetReceipt reads one receipt by index; schema.ErrExhausted signals the end
// of the payer's sequence.
func (c *Client) GetReceipt(account ethcommon.Address, index uint64) (rc schema.Receipt, err error) {
	req := c.SCli.Get()
	req.Path(fmt.Sprintf("/receipt/%s/%s", account.Hex(), strconv.FormatUint(index, 10)))
	resp, err := req.Send()
	if err != nil {
		return
	}
	defer resp.Close()
	if resp.StatusCode == 404 {
		return rc, schema.ErrExhausted
	}
	if !resp.Ok {
		return rc, decodeRespErr(resp.Bytes())
	}
	err = resp.JSON(&rc)
	return
}

// GetAllReceipts pages through the indexed receipt read until exhaustion.
func (c *Client) GetAllReceipts(account ethcommon.Address) ([]schema.Receipt, error) {
	rs := make([]schema.Receipt, 0, 10)
	for i := uint64(0); ; i++ {
		rc, err := c.GetReceipt(account, i)
		if err == schema.ErrExhausted {
			return rs, nil
		}
		if err != nil {
			return nil, err
		}
		rs = append(rs, rc)
	}
}

func (c *Client) submitCall(call schema.Call) (res schema.RespCallResult, err error) {
	call.Nonce = time.Now().UnixMilli()
	sig, err := c.signer.SignMsg(call.SignData())
	if err != nil {
		return
	}
	call.Sig = hexutil.Encode(sig)

	body, err := json.Marshal(&call)
	if err != nil {
		return
	}

	req := c.SCli.Post()
	req.Path("/call/sync")
	req.SetHeader("Content-Type", "application/json")
	req.Body(bytes.NewReader(body))
	resp, err := req.Send()
	if err != nil {
		return
	}
	defer resp.Close()

	if err = resp.JSON(&res); err != nil {
		return
	}
	if len(res.ErrMsg) > 0 {
		err = errors.New(res.ErrMsg)
	}
	return
}

func decodeRespErr(data []byte) error {
	resErr := schema.RespErr{}
	if err := json.Unmarshal(data, &resErr); err != nil {
		return errors.New(string(data))
	}
	return resErr
}
