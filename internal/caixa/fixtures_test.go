// internal/caixa/fixtures_test.go
package caixa

// Fragmentos reduzidos das respostas reais dos endpoints.

const searchFixture = `
<input type="hidden" id="hdnQtdRegistros" name="hdnQtdRegistros" value="7">
<input type="hidden" id="hdnQtdPag" name="hdnQtdPag" value="2">
<input type="hidden" id="hdnImov1" name="hdnImov1" value="8444406862906||8444409163001||8444412070411||8555510867851">
<input type="hidden" id="hdnImov2" name="hdnImov2" value="8787700569268||8787701525005||8787702154399">
`

const searchEmptyFixture = `
<input type="hidden" id="hdnQtdRegistros" name="hdnQtdRegistros" value="0">
<input type="hidden" id="hdnQtdPag" name="hdnQtdPag" value="0">
`

const listFixture = `
<ul class="group-block">
  <li class="group-block-item">
    <div class="fotoimovel-col1">
      <a onclick="detalhe_imovel(8555510867851);"><img src="/fotos/F8555510867851_thumb.jpg"></a>
    </div>
    <div class="dadosimovel-col2">
      <a onclick="detalhe_imovel(8555510867851);"><b>APARTAMENTO - SAO PAULO</b></a><br>
      <font>Valor de avalia&ccedil;&atilde;o: R$ 250.000,00</font><br>
      <font>Valor m&iacute;nimo de venda: R$ 162.500,00 (desconto de 35%)</font><br>
      <font>RUA CORONEL EXEMPLO, N. 100, APTO 12, VILA MARIANA - SAO PAULO/SP</font><br>
      <font>Apartamento, 54,00 m2 de &aacute;rea privativa, 2 quartos, 1 vaga de garagem.</font><br>
      <font>Leil&atilde;o SFI - Edital &Uacute;nico</font>
    </div>
  </li>
  <li class="group-block-item">
    <div class="dadosimovel-col2">
      <b>CASA SEM LINK - SANTOS</b>
      <font>Valor de venda: R$ 90.000,00</font>
    </div>
  </li>
</ul>
`

const detailFixture = `
<div class="content">
  <h5>APARTAMENTO - SAO PAULO</h5>
  <p><b>Valor de avalia&ccedil;&atilde;o: R$ 250.000,00</b></p>
  <p><b>Valor m&iacute;nimo de venda: R$ 162.500,00 (desconto de 35%)</b></p>
  <div class="content-info">
    <p><strong>Tipo de im&oacute;vel:</strong> Apartamento</p>
    <p><strong>Quartos:</strong> 02</p>
    <p><strong>Garagem:</strong> 1</p>
    <p><strong>N&uacute;mero do im&oacute;vel:</strong> 8555510867851-8</p>
    <p><strong>Matr&iacute;cula(s):</strong> 123456</p>
    <p><strong>Comarca:</strong> SAO PAULO - SP</p>
    <p><strong>Of&iacute;cio:</strong> 14&ordm; OFICIO DE REGISTRO DE IMOVEIS</p>
    <p><strong>Inscri&ccedil;&atilde;o imobili&aacute;ria:</strong> 041.123.0456-7</p>
    <p><strong>&Aacute;rea total:</strong> 54,00m&sup2;</p>
    <p><strong>&Aacute;rea privativa:</strong> 48,30m&sup2;</p>
    <p><strong>&Aacute;rea do terreno:</strong> 0,00m&sup2;</p>
    <p><strong>Situa&ccedil;&atilde;o:</strong> Ocupado</p>
    <p><strong>Modalidade de venda:</strong> Leil&atilde;o SFI - Edital &Uacute;nico</p>
  </div>
  <p><strong>Endere&ccedil;o:</strong> RUA CORONEL EXEMPLO, N. 100, APTO 12, VILA MARIANA - SAO PAULO/SP</p>
  <p><strong>Descri&ccedil;&atilde;o:</strong> Apartamento composto de sala, 2 quartos, cozinha e banheiro.</p>
  <div class="related-box">
    <p>Im&oacute;vel aceita utiliza&ccedil;&atilde;o de FGTS e aceita financiamento habitacional.</p>
    <a onclick="ExibeDoc('/editais/matricula/123456.pdf')">Baixar matr&iacute;cula do im&oacute;vel</a>
    <a onclick="ExibeDoc('/editais/regras/Edital-0001-2024.pdf')">Baixar regras de venda</a>
  </div>
  <div id="galeria-imagens">
    <img src="/fotos/F855551086785121.jpg">
    <img src="/fotos/F855551086785122.jpg">
  </div>
</div>
`

const detailNoFinancingFixture = `
<div class="content">
  <h5>CASA - SANTOS</h5>
  <p><strong>N&uacute;mero do im&oacute;vel:</strong> 8787700569268-1</p>
  <div class="related-box">
    <p>Im&oacute;vel N&Atilde;O aceita utiliza&ccedil;&atilde;o de FGTS e n&atilde;o aceita financiamento habitacional.</p>
  </div>
</div>
`

const detailMixedClausesFixture = `
<div class="content">
  <h5>CASA - CAMPINAS</h5>
  <p><strong>N&uacute;mero do im&oacute;vel:</strong> 1444400012345-6</p>
  <div class="related-box">
    <p>Im&oacute;vel N&Atilde;O aceita utiliza&ccedil;&atilde;o de FGTS, mas aceita financiamento habitacional.</p>
  </div>
</div>
`
