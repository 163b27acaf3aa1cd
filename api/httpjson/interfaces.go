package httpjson

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nknorg/powledger/api/common"
	"github.com/nknorg/powledger/block"
	"github.com/nknorg/powledger/config"
	"github.com/nknorg/powledger/errors"
	"github.com/nknorg/powledger/transaction"
	"github.com/nknorg/powledger/util/log"
)

type newTransactionRequest struct {
	Sender    *string `json:"sender"`
	Recipient *string `json:"recipient"`
	Amount    *uint64 `json:"amount"`
}

type registerNodesRequest struct {
	Nodes []string `json:"nodes"`
}

func (s *RPCServer) abortWithError(c *gin.Context, err error) {
	log.WebLog.Warningf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.AbortWithStatusJSON(common.HTTPStatus(err), common.ErrorPack(err))
}

func (s *RPCServer) mine(c *gin.Context) {
	b, err := s.ledger.Mine(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "New Block Forged",
		"index":         b.Index,
		"transactions":  b.Transactions,
		"proof":         b.Proof,
		"previous_hash": b.PreviousHash,
	})
}

func (s *RPCServer) newTransaction(c *gin.Context) {
	var req newTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Sender == nil || req.Recipient == nil || req.Amount == nil {
		s.abortWithError(c, errors.NewDetailErrf(errors.ErrInvalidParams, "Missing values"))
		return
	}

	txn := transaction.NewTransaction(*req.Sender, *req.Recipient, *req.Amount)
	if err := txn.Verify(); err != nil {
		s.abortWithError(c, errors.NewDetailErr(err, errors.ErrInvalidParams, "invalid transaction"))
		return
	}

	index := s.ledger.SubmitTransaction(txn)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Transaction will be added to Block " + strconv.FormatUint(index, 10),
	})
}

func (s *RPCServer) fullChain(c *gin.Context) {
	data, err := block.EncodeChain(s.ledger.Chain())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

func (s *RPCServer) registerNodes(c *gin.Context) {
	var req registerNodesRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Nodes == nil {
		s.abortWithError(c, errors.NewDetailErrf(errors.ErrInvalidParams, "Please supply a valid list of nodes"))
		return
	}

	// reject the whole request before registering any of it
	for _, node := range req.Nodes {
		if _, err := config.NormalizeAddress(node); err != nil {
			s.abortWithError(c, errors.NewDetailErr(err, errors.ErrInvalidParams, "invalid node address "+node))
			return
		}
	}
	for _, node := range req.Nodes {
		if _, err := s.ledger.RegisterNode(node); err != nil {
			s.abortWithError(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "New nodes have been added",
		"total_nodes": s.ledger.Peers(),
	})
}

func (s *RPCServer) resolve(c *gin.Context) {
	replaced := s.resolver.Resolve(c.Request.Context())
	blocks := s.ledger.Chain().Blocks()

	if replaced {
		c.JSON(http.StatusOK, gin.H{
			"message":   "Our chain was replaced",
			"new_chain": blocks,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Our chain is authoritative",
		"chain":   blocks,
	})
}

func (s *RPCServer) nodes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"nodes": s.ledger.Peers(),
	})
}
